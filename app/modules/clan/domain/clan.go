package clandomain

import (
	"time"

	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
)

// Role is a member's position within a clan.
type Role string

const (
	RoleCreator Role = "creator"
	RoleMember  Role = "member"
)

// Clan is a named group of users.
type Clan struct {
	ID            int64
	Name          string
	Tag           *string
	AvatarURL     *string
	Description   *string
	CreatedAt     time.Time
	NameChangedAt *time.Time
}

// Member is a clan membership row.
type Member struct {
	ID       int64
	ClanID   int64
	UserID   int64
	Role     Role
	JoinedAt time.Time
}

// MemberStanding is a member together with the user data needed to list it.
type MemberStanding struct {
	Member
	Username          string
	AccountStatus     userdomain.AccountStatus
	PerformancePoints float64
}

// ClanStanding is a clan with its total performance points for a mode.
type ClanStanding struct {
	Clan
	TotalPP float64
}

// ClanDetails is a clan with its aggregate and ordered member list for a mode.
type ClanDetails struct {
	Clan    Clan
	Mode    userdomain.GameMode
	TotalPP float64
	Members []MemberStanding
}
