package clandb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new clan repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetClanByID retrieves a clan by id.
func (r *Impl) GetClanByID(ctx context.Context, db bun.IDB, clanID int64) (*Clan, error) {
	return r.getClan(ctx, db, clanID, "")
}

// GetClanForUpdate retrieves a clan and locks the row for the rest of the transaction.
func (r *Impl) GetClanForUpdate(ctx context.Context, db bun.IDB, clanID int64) (*Clan, error) {
	return r.getClan(ctx, db, clanID, "UPDATE")
}

// GetClanForShare retrieves a clan and holds a shared row lock, so the clan
// cannot be deleted or edited until the transaction ends.
func (r *Impl) GetClanForShare(ctx context.Context, db bun.IDB, clanID int64) (*Clan, error) {
	return r.getClan(ctx, db, clanID, "SHARE")
}

func (r *Impl) getClan(ctx context.Context, db bun.IDB, clanID int64, lock string) (*Clan, error) {
	db = r.resolveDB(db)
	clan := new(Clan)
	q := db.NewSelect().
		Model(clan).
		Where("c.id = ?", clanID)
	if lock != "" {
		q = q.For(lock)
	}
	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get clan by id: %w", err)
	}
	return clan, nil
}

// ClanNameExists checks name usage, ignoring excludeClanID (0 excludes nothing).
func (r *Impl) ClanNameExists(ctx context.Context, db bun.IDB, name string, excludeClanID int64) (bool, error) {
	db = r.resolveDB(db)
	q := db.NewSelect().
		Model((*Clan)(nil)).
		Where("c.name = ?", name)
	if excludeClanID != 0 {
		q = q.Where("c.id <> ?", excludeClanID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check clan name: %w", err)
	}
	return exists, nil
}

// InsertClan inserts a new clan row.
func (r *Impl) InsertClan(ctx context.Context, db bun.IDB, clan *Clan) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(clan).
		ExcludeColumn("id").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert clan: %w", err)
	}
	return nil
}

// UpdateClanName renames the clan and stamps name_changed_at.
func (r *Impl) UpdateClanName(ctx context.Context, db bun.IDB, clanID int64, name string, changedAt time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Clan)(nil)).
		Set("name = ?", name).
		Set("name_changed_at = ?", changedAt).
		Where("id = ?", clanID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update clan name: %w", err)
	}
	return requireAffected(res, ErrNotFound)
}

// UpdateClanAvatar sets or clears the avatar url.
func (r *Impl) UpdateClanAvatar(ctx context.Context, db bun.IDB, clanID int64, avatarURL *string) error {
	return r.updateColumn(ctx, db, clanID, "avatar_url", avatarURL)
}

// UpdateClanDescription sets or clears the description.
func (r *Impl) UpdateClanDescription(ctx context.Context, db bun.IDB, clanID int64, description *string) error {
	return r.updateColumn(ctx, db, clanID, "description", description)
}

// UpdateClanTag sets or clears the tag.
func (r *Impl) UpdateClanTag(ctx context.Context, db bun.IDB, clanID int64, tag *string) error {
	return r.updateColumn(ctx, db, clanID, "tag", tag)
}

func (r *Impl) updateColumn(ctx context.Context, db bun.IDB, clanID int64, column string, value *string) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Clan)(nil)).
		Set("? = ?", bun.Ident(column), value).
		Where("id = ?", clanID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update clan %s: %w", column, err)
	}
	return requireAffected(res, ErrNotFound)
}

// DeleteClan removes the clan row.
func (r *Impl) DeleteClan(ctx context.Context, db bun.IDB, clanID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Clan)(nil)).
		Where("id = ?", clanID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete clan: %w", err)
	}
	return requireAffected(res, ErrNotFound)
}

// GetMemberByUserID retrieves the membership of a user.
func (r *Impl) GetMemberByUserID(ctx context.Context, db bun.IDB, userID int64) (*Member, error) {
	db = r.resolveDB(db)
	member := new(Member)
	err := db.NewSelect().
		Model(member).
		Where("cm.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get clan member: %w", err)
	}
	return member, nil
}

// InsertMember inserts a membership row.
func (r *Impl) InsertMember(ctx context.Context, db bun.IDB, member *Member) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(member).
		ExcludeColumn("id").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert clan member: %w", err)
	}
	return nil
}

// DeleteMemberByUserID removes a user's membership.
func (r *Impl) DeleteMemberByUserID(ctx context.Context, db bun.IDB, userID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Member)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete clan member: %w", err)
	}
	return requireAffected(res, ErrMemberNotFound)
}

// DeleteMembersByClanID removes every membership of a clan.
func (r *Impl) DeleteMembersByClanID(ctx context.Context, db bun.IDB, clanID int64) (int64, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Member)(nil)).
		Where("clan_id = ?", clanID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clan members: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

// activeMemberPP selects (clan_id, total_pp) over active members only.
func activeMemberPP(db bun.IDB, mode userdomain.GameMode) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("clan_member AS cm").
		ColumnExpr("cm.clan_id").
		ColumnExpr("SUM(COALESCE(us.performance_points, 0)) AS total_pp").
		Join("JOIN users AS u ON u.id = cm.user_id").
		Join("LEFT JOIN user_stats AS us ON us.user_id = cm.user_id AND us.game_mode = ?", mode).
		Where("u.account_status = ?", userdomain.AccountStatusActive).
		Group("cm.clan_id")
}

// GetClanTotalPP sums pp over the clan's active members. Missing stats count as 0.
func (r *Impl) GetClanTotalPP(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) (float64, error) {
	db = r.resolveDB(db)
	var total float64
	err := db.NewSelect().
		TableExpr("(?) AS t", activeMemberPP(db, mode).Where("cm.clan_id = ?", clanID)).
		ColumnExpr("COALESCE(SUM(t.total_pp), 0)").
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum clan pp: %w", err)
	}
	return total, nil
}

// GetClansByLeaderboard returns one page of clans ordered by total pp.
func (r *Impl) GetClansByLeaderboard(ctx context.Context, db bun.IDB, mode userdomain.GameMode, limit, offset int) ([]ClanStandingRow, error) {
	db = r.resolveDB(db)
	var rows []ClanStandingRow
	err := db.NewSelect().
		Model(&rows).
		ColumnExpr("c.*").
		ColumnExpr("COALESCE(t.total_pp, 0) AS total_pp").
		Join("LEFT JOIN (?) AS t ON t.clan_id = c.id", activeMemberPP(db, mode)).
		OrderExpr("total_pp DESC, c.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clans by leaderboard: %w", err)
	}
	return rows, nil
}

// GetClanMembersByPP lists every member, restricted ones included.
func (r *Impl) GetClanMembersByPP(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) ([]MemberStandingRow, error) {
	db = r.resolveDB(db)
	var rows []MemberStandingRow
	err := db.NewSelect().
		Model(&rows).
		ColumnExpr("cm.*").
		ColumnExpr("u.username, u.account_status").
		ColumnExpr("COALESCE(us.performance_points, 0) AS performance_points").
		Join("JOIN users AS u ON u.id = cm.user_id").
		Join("LEFT JOIN user_stats AS us ON us.user_id = cm.user_id AND us.game_mode = ?", mode).
		Where("cm.clan_id = ?", clanID).
		OrderExpr("performance_points DESC, cm.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clan members by pp: %w", err)
	}
	return rows, nil
}

// CountClans returns the number of clans.
func (r *Impl) CountClans(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Clan)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count clans: %w", err)
	}
	return count, nil
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
