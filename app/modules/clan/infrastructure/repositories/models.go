package clandb

import (
	"time"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/uptrace/bun"
)

// Clan is the clan row.
type Clan struct {
	bun.BaseModel `bun:"table:clan,alias:c"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Tag           *string    `bun:"tag" json:"tag,omitempty"`
	AvatarURL     *string    `bun:"avatar_url" json:"avatar_url,omitempty"`
	Description   *string    `bun:"description" json:"description,omitempty"`
	NameChangedAt *time.Time `bun:"name_changed_at" json:"name_changed_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull" json:"created_at"`
}

// ToDomain converts the row to the domain value.
func (c *Clan) ToDomain() clandomain.Clan {
	return clandomain.Clan{
		ID:            c.ID,
		Name:          c.Name,
		Tag:           c.Tag,
		AvatarURL:     c.AvatarURL,
		Description:   c.Description,
		CreatedAt:     c.CreatedAt,
		NameChangedAt: c.NameChangedAt,
	}
}

// Member is the clan_member row. user_id is globally unique.
type Member struct {
	bun.BaseModel `bun:"table:clan_member,alias:cm"`
	ID            int64           `bun:"id,pk,autoincrement" json:"id"`
	ClanID        int64           `bun:"clan_id,notnull" json:"clan_id"`
	UserID        int64           `bun:"user_id,notnull" json:"user_id"`
	Role          clandomain.Role `bun:"role,notnull" json:"role"`
	JoinedAt      time.Time       `bun:"joined_at,notnull" json:"joined_at"`
}

// ToDomain converts the row to the domain value.
func (m *Member) ToDomain() clandomain.Member {
	return clandomain.Member{
		ID:       m.ID,
		ClanID:   m.ClanID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// ClanStandingRow is a clan with its summed pp for a mode.
type ClanStandingRow struct {
	Clan    `bun:",extend"`
	TotalPP float64 `bun:"total_pp"`
}

// MemberStandingRow is a membership joined with the member's user and stats.
type MemberStandingRow struct {
	Member            `bun:",extend"`
	Username          string                   `bun:"username"`
	AccountStatus     userdomain.AccountStatus `bun:"account_status"`
	PerformancePoints float64                  `bun:"performance_points"`
}
