package userdb

import (
	"time"

	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/uptrace/bun"
)

// User holds the account attributes clan operations read and the clan_id they
// maintain.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int64                    `bun:"id,pk,autoincrement" json:"id"`
	Username      string                   `bun:"username,notnull" json:"username"`
	Privilege     userdomain.Privilege     `bun:"privilege,notnull" json:"privilege"`
	AccountStatus userdomain.AccountStatus `bun:"account_status,notnull" json:"account_status"`
	DefaultMode   userdomain.GameMode      `bun:"default_mode,notnull" json:"default_mode"`
	ClanID        *int64                   `bun:"clan_id" json:"clan_id,omitempty"`
	CreatedAt     time.Time                `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Identity projects the row onto the caller view.
func (u *User) Identity() userdomain.Identity {
	return userdomain.Identity{
		UserID:        u.ID,
		Username:      u.Username,
		Privilege:     u.Privilege,
		AccountStatus: u.AccountStatus,
		ClanID:        u.ClanID,
		DefaultMode:   u.DefaultMode,
	}
}

// UserStats is the per-mode performance row. pp is computed elsewhere.
type UserStats struct {
	bun.BaseModel     `bun:"table:user_stats,alias:us"`
	UserID            int64               `bun:"user_id,pk" json:"user_id"`
	GameMode          userdomain.GameMode `bun:"game_mode,pk" json:"game_mode"`
	PerformancePoints float64             `bun:"performance_points,notnull" json:"performance_points"`
}
