package userdomain

import "strings"

// Privilege is a bit set of account privileges.
type Privilege int32

const (
	PrivilegeUser Privilege = 1 << iota
	PrivilegeSupporter
	PrivilegeBat
	PrivilegeModerator
	PrivilegeAdmin
	PrivilegeSuperUser
)

// staffLadder lists the ranked privileges, lowest first. Supporter is a perk,
// not a rank.
var staffLadder = []Privilege{
	PrivilegeUser,
	PrivilegeBat,
	PrivilegeModerator,
	PrivilegeAdmin,
	PrivilegeSuperUser,
}

// Has reports whether every bit of flag is set.
func (p Privilege) Has(flag Privilege) bool {
	return p&flag == flag
}

// Highest returns the highest ranked privilege held, or PrivilegeUser.
func (p Privilege) Highest() Privilege {
	highest := PrivilegeUser
	for _, rank := range staffLadder {
		if p.Has(rank) {
			highest = rank
		}
	}
	return highest
}

// AtLeast reports whether the highest ranked privilege is at or above level.
func (p Privilege) AtLeast(level Privilege) bool {
	return p.Highest() >= level
}

func (p Privilege) String() string {
	names := map[Privilege]string{
		PrivilegeUser:      "user",
		PrivilegeSupporter: "supporter",
		PrivilegeBat:       "bat",
		PrivilegeModerator: "moderator",
		PrivilegeAdmin:     "admin",
		PrivilegeSuperUser: "superuser",
	}
	var parts []string
	for _, flag := range []Privilege{PrivilegeUser, PrivilegeSupporter, PrivilegeBat, PrivilegeModerator, PrivilegeAdmin, PrivilegeSuperUser} {
		if p.Has(flag) {
			parts = append(parts, names[flag])
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// AccountStatus is the moderation state of an account.
type AccountStatus string

const (
	AccountStatusActive     AccountStatus = "active"
	AccountStatusRestricted AccountStatus = "restricted"
	AccountStatusDisabled   AccountStatus = "disabled"
)
