package clandomain

import (
	"fmt"
	"net/http"
	"time"
)

// Code is the closed set of outcomes a clan operation can fail with.
type Code string

const (
	CodeUserNotFound                     Code = "UserNotFound"
	CodeUserNotInClan                    Code = "UserNotInClan"
	CodeUserAlreadyInClan                Code = "UserAlreadyInClan"
	CodeUserIsRestricted                 Code = "UserIsRestricted"
	CodeUserIsNotClanCreator             Code = "UserIsNotClanCreator"
	CodeClanNotFound                     Code = "ClanNotFound"
	CodeClanNameAlreadyTaken             Code = "ClanNameAlreadyTaken"
	CodeInvalidClanTag                   Code = "InvalidClanTag"
	CodeNameChangeOnCooldown             Code = "NameChangeOnCooldown"
	CodeCreatorCannotLeaveClan           Code = "CreatorCannotLeaveClan"
	CodeClanCreatorCannotBeKicked        Code = "ClanCreatorCannotBeKicked"
	CodeCannotKickSelf                   Code = "CannotKickSelf"
	CodeClanMemberNotFound               Code = "ClanMemberNotFound"
	CodeCannotDeleteClanAsRestrictedUser Code = "CannotDeleteClanAsRestrictedUser"
	CodeInsufficientPrivileges           Code = "InsufficientPrivileges"
	CodeUnknownError                     Code = "UnknownError"
)

// Codes lists every code, in declaration order.
var Codes = []Code{
	CodeUserNotFound,
	CodeUserNotInClan,
	CodeUserAlreadyInClan,
	CodeUserIsRestricted,
	CodeUserIsNotClanCreator,
	CodeClanNotFound,
	CodeClanNameAlreadyTaken,
	CodeInvalidClanTag,
	CodeNameChangeOnCooldown,
	CodeCreatorCannotLeaveClan,
	CodeClanCreatorCannotBeKicked,
	CodeCannotKickSelf,
	CodeClanMemberNotFound,
	CodeCannotDeleteClanAsRestrictedUser,
	CodeInsufficientPrivileges,
	CodeUnknownError,
}

// Status is the HTTP status the code maps to.
func (c Code) Status() int {
	switch c {
	case CodeUserNotFound, CodeClanNotFound, CodeClanMemberNotFound:
		return http.StatusNotFound
	case CodeUserIsRestricted, CodeUserIsNotClanCreator, CodeCannotDeleteClanAsRestrictedUser, CodeInsufficientPrivileges:
		return http.StatusForbidden
	case CodeUnknownError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Detail is the human readable message shown to API callers.
func (c Code) Detail() string {
	switch c {
	case CodeUserNotFound:
		return "User not found."
	case CodeUserNotInClan:
		return "You are not in a clan."
	case CodeUserAlreadyInClan:
		return "You are already in a clan."
	case CodeUserIsRestricted:
		return "Your account is restricted."
	case CodeUserIsNotClanCreator, CodeInsufficientPrivileges:
		return "You don't have enough privileges to perform this action."
	case CodeClanNotFound:
		return "Clan not found."
	case CodeClanNameAlreadyTaken:
		return "Clan name is already taken."
	case CodeInvalidClanTag:
		return "Clan tag must be exactly 3 uppercase letters or digits."
	case CodeNameChangeOnCooldown:
		return "You can't change your clan name yet."
	case CodeCreatorCannotLeaveClan:
		return "Clan creator can't leave the clan. Delete the clan instead."
	case CodeClanCreatorCannotBeKicked:
		return "Clan creator can't be kicked from the clan."
	case CodeCannotKickSelf:
		return "You can't kick yourself from the clan."
	case CodeClanMemberNotFound:
		return "User is not a member of your clan."
	case CodeCannotDeleteClanAsRestrictedUser:
		return "Restricted users can't delete a clan."
	default:
		return "Unknown error occurred."
	}
}

// Failure is the failure payload of a clan operation.
type Failure struct {
	Code Code
	// NextChangeAt is set for CodeNameChangeOnCooldown.
	NextChangeAt *time.Time
}

// NewFailure creates a failure for code.
func NewFailure(code Code) *Failure {
	return &Failure{Code: code}
}

func (f *Failure) Error() string {
	return string(f.Code)
}

// Detail renders the caller-facing message, including the cooldown deadline.
func (f *Failure) Detail() string {
	if f.Code == CodeNameChangeOnCooldown && f.NextChangeAt != nil {
		return fmt.Sprintf("You can change your clan name again at %s.", f.NextChangeAt.UTC().Format(time.RFC3339))
	}
	return f.Code.Detail()
}
