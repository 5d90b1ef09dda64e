package clanservice

import (
	"context"
	"sort"
	"time"

	clandb "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories"
	userdomain "github.com/Black-And-White-Club/clan-service/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// In-memory store
// ------------------------

// memStore backs the fakes with a small relational model so multi-step tests can
// run a sequence of operations and then inspect the rows.
type memStore struct {
	users      map[int64]*userdb.User
	stats      map[int64]map[userdomain.GameMode]float64
	clans      map[int64]*clandb.Clan
	members    map[int64]*clandb.Member // keyed by user id
	nextClanID int64
	nextMemID  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[int64]*userdb.User{},
		stats:   map[int64]map[userdomain.GameMode]float64{},
		clans:   map[int64]*clandb.Clan{},
		members: map[int64]*clandb.Member{},
	}
}

func (m *memStore) addUser(id int64, username string, status userdomain.AccountStatus) *userdb.User {
	u := &userdb.User{
		ID:            id,
		Username:      username,
		Privilege:     userdomain.PrivilegeUser,
		AccountStatus: status,
		DefaultMode:   userdomain.GameModeStandard,
	}
	m.users[id] = u
	return u
}

func (m *memStore) setPP(userID int64, mode userdomain.GameMode, pp float64) {
	if m.stats[userID] == nil {
		m.stats[userID] = map[userdomain.GameMode]float64{}
	}
	m.stats[userID][mode] = pp
}

func (m *memStore) clanOf(userID int64) *int64 {
	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	return u.ClanID
}

func (m *memStore) memberCount(clanID int64) int {
	n := 0
	for _, mem := range m.members {
		if mem.ClanID == clanID {
			n++
		}
	}
	return n
}

func (m *memStore) totalPP(clanID int64, mode userdomain.GameMode) float64 {
	var total float64
	for _, mem := range m.members {
		if mem.ClanID != clanID {
			continue
		}
		if u := m.users[mem.UserID]; u != nil && u.AccountStatus == userdomain.AccountStatusActive {
			total += m.stats[mem.UserID][mode]
		}
	}
	return total
}

func copyClan(c *clandb.Clan) *clandb.Clan {
	out := *c
	return &out
}

func copyUser(u *userdb.User) *userdb.User {
	out := *u
	return &out
}

// ------------------------
// Fake Clan Repo
// ------------------------

// FakeClanRepo provides a programmable stub for clandb.Repository. Unset
// functions fall through to the in-memory store.
type FakeClanRepo struct {
	store *memStore
	trace []string

	GetClanByIDFunc           func(ctx context.Context, db bun.IDB, clanID int64) (*clandb.Clan, error)
	GetClanForUpdateFunc      func(ctx context.Context, db bun.IDB, clanID int64) (*clandb.Clan, error)
	GetClanForShareFunc       func(ctx context.Context, db bun.IDB, clanID int64) (*clandb.Clan, error)
	ClanNameExistsFunc        func(ctx context.Context, db bun.IDB, name string, excludeClanID int64) (bool, error)
	InsertClanFunc            func(ctx context.Context, db bun.IDB, clan *clandb.Clan) error
	UpdateClanNameFunc        func(ctx context.Context, db bun.IDB, clanID int64, name string, changedAt time.Time) error
	UpdateClanAvatarFunc      func(ctx context.Context, db bun.IDB, clanID int64, avatarURL *string) error
	UpdateClanDescriptionFunc func(ctx context.Context, db bun.IDB, clanID int64, description *string) error
	UpdateClanTagFunc         func(ctx context.Context, db bun.IDB, clanID int64, tag *string) error
	DeleteClanFunc            func(ctx context.Context, db bun.IDB, clanID int64) error
	GetMemberByUserIDFunc     func(ctx context.Context, db bun.IDB, userID int64) (*clandb.Member, error)
	InsertMemberFunc          func(ctx context.Context, db bun.IDB, member *clandb.Member) error
	DeleteMemberByUserIDFunc  func(ctx context.Context, db bun.IDB, userID int64) error
	DeleteMembersByClanIDFunc func(ctx context.Context, db bun.IDB, clanID int64) (int64, error)
	GetClanTotalPPFunc        func(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) (float64, error)
	GetClansByLeaderboardFunc func(ctx context.Context, db bun.IDB, mode userdomain.GameMode, limit, offset int) ([]clandb.ClanStandingRow, error)
	GetClanMembersByPPFunc    func(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) ([]clandb.MemberStandingRow, error)
	CountClansFunc            func(ctx context.Context, db bun.IDB) (int, error)
}

// NewFakeClanRepo initializes a new FakeClanRepo over store.
func NewFakeClanRepo(store *memStore) *FakeClanRepo {
	return &FakeClanRepo{store: store, trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeClanRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeClanRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeClanRepo) GetClanByID(ctx context.Context, db bun.IDB, clanID int64) (*clandb.Clan, error) {
	f.record("GetClanByID")
	if f.GetClanByIDFunc != nil {
		return f.GetClanByIDFunc(ctx, db, clanID)
	}
	return f.storedClan(clanID)
}

func (f *FakeClanRepo) GetClanForUpdate(ctx context.Context, db bun.IDB, clanID int64) (*clandb.Clan, error) {
	f.record("GetClanForUpdate")
	if f.GetClanForUpdateFunc != nil {
		return f.GetClanForUpdateFunc(ctx, db, clanID)
	}
	return f.storedClan(clanID)
}

func (f *FakeClanRepo) GetClanForShare(ctx context.Context, db bun.IDB, clanID int64) (*clandb.Clan, error) {
	f.record("GetClanForShare")
	if f.GetClanForShareFunc != nil {
		return f.GetClanForShareFunc(ctx, db, clanID)
	}
	return f.storedClan(clanID)
}

func (f *FakeClanRepo) storedClan(clanID int64) (*clandb.Clan, error) {
	c, ok := f.store.clans[clanID]
	if !ok {
		return nil, clandb.ErrNotFound
	}
	return copyClan(c), nil
}

func (f *FakeClanRepo) ClanNameExists(ctx context.Context, db bun.IDB, name string, excludeClanID int64) (bool, error) {
	f.record("ClanNameExists")
	if f.ClanNameExistsFunc != nil {
		return f.ClanNameExistsFunc(ctx, db, name, excludeClanID)
	}
	for id, c := range f.store.clans {
		if c.Name == name && id != excludeClanID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeClanRepo) InsertClan(ctx context.Context, db bun.IDB, clan *clandb.Clan) error {
	f.record("InsertClan")
	if f.InsertClanFunc != nil {
		return f.InsertClanFunc(ctx, db, clan)
	}
	f.store.nextClanID++
	clan.ID = f.store.nextClanID
	f.store.clans[clan.ID] = copyClan(clan)
	return nil
}

func (f *FakeClanRepo) UpdateClanName(ctx context.Context, db bun.IDB, clanID int64, name string, changedAt time.Time) error {
	f.record("UpdateClanName")
	if f.UpdateClanNameFunc != nil {
		return f.UpdateClanNameFunc(ctx, db, clanID, name, changedAt)
	}
	c, ok := f.store.clans[clanID]
	if !ok {
		return clandb.ErrNotFound
	}
	c.Name = name
	c.NameChangedAt = &changedAt
	return nil
}

func (f *FakeClanRepo) UpdateClanAvatar(ctx context.Context, db bun.IDB, clanID int64, avatarURL *string) error {
	f.record("UpdateClanAvatar")
	if f.UpdateClanAvatarFunc != nil {
		return f.UpdateClanAvatarFunc(ctx, db, clanID, avatarURL)
	}
	c, ok := f.store.clans[clanID]
	if !ok {
		return clandb.ErrNotFound
	}
	c.AvatarURL = avatarURL
	return nil
}

func (f *FakeClanRepo) UpdateClanDescription(ctx context.Context, db bun.IDB, clanID int64, description *string) error {
	f.record("UpdateClanDescription")
	if f.UpdateClanDescriptionFunc != nil {
		return f.UpdateClanDescriptionFunc(ctx, db, clanID, description)
	}
	c, ok := f.store.clans[clanID]
	if !ok {
		return clandb.ErrNotFound
	}
	c.Description = description
	return nil
}

func (f *FakeClanRepo) UpdateClanTag(ctx context.Context, db bun.IDB, clanID int64, tag *string) error {
	f.record("UpdateClanTag")
	if f.UpdateClanTagFunc != nil {
		return f.UpdateClanTagFunc(ctx, db, clanID, tag)
	}
	c, ok := f.store.clans[clanID]
	if !ok {
		return clandb.ErrNotFound
	}
	c.Tag = tag
	return nil
}

func (f *FakeClanRepo) DeleteClan(ctx context.Context, db bun.IDB, clanID int64) error {
	f.record("DeleteClan")
	if f.DeleteClanFunc != nil {
		return f.DeleteClanFunc(ctx, db, clanID)
	}
	if _, ok := f.store.clans[clanID]; !ok {
		return clandb.ErrNotFound
	}
	delete(f.store.clans, clanID)
	return nil
}

func (f *FakeClanRepo) GetMemberByUserID(ctx context.Context, db bun.IDB, userID int64) (*clandb.Member, error) {
	f.record("GetMemberByUserID")
	if f.GetMemberByUserIDFunc != nil {
		return f.GetMemberByUserIDFunc(ctx, db, userID)
	}
	m, ok := f.store.members[userID]
	if !ok {
		return nil, clandb.ErrMemberNotFound
	}
	out := *m
	return &out, nil
}

func (f *FakeClanRepo) InsertMember(ctx context.Context, db bun.IDB, member *clandb.Member) error {
	f.record("InsertMember")
	if f.InsertMemberFunc != nil {
		return f.InsertMemberFunc(ctx, db, member)
	}
	f.store.nextMemID++
	member.ID = f.store.nextMemID
	stored := *member
	f.store.members[member.UserID] = &stored
	return nil
}

func (f *FakeClanRepo) DeleteMemberByUserID(ctx context.Context, db bun.IDB, userID int64) error {
	f.record("DeleteMemberByUserID")
	if f.DeleteMemberByUserIDFunc != nil {
		return f.DeleteMemberByUserIDFunc(ctx, db, userID)
	}
	if _, ok := f.store.members[userID]; !ok {
		return clandb.ErrMemberNotFound
	}
	delete(f.store.members, userID)
	return nil
}

func (f *FakeClanRepo) DeleteMembersByClanID(ctx context.Context, db bun.IDB, clanID int64) (int64, error) {
	f.record("DeleteMembersByClanID")
	if f.DeleteMembersByClanIDFunc != nil {
		return f.DeleteMembersByClanIDFunc(ctx, db, clanID)
	}
	var n int64
	for userID, m := range f.store.members {
		if m.ClanID == clanID {
			delete(f.store.members, userID)
			n++
		}
	}
	return n, nil
}

func (f *FakeClanRepo) GetClanTotalPP(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) (float64, error) {
	f.record("GetClanTotalPP")
	if f.GetClanTotalPPFunc != nil {
		return f.GetClanTotalPPFunc(ctx, db, clanID, mode)
	}
	return f.store.totalPP(clanID, mode), nil
}

func (f *FakeClanRepo) GetClansByLeaderboard(ctx context.Context, db bun.IDB, mode userdomain.GameMode, limit, offset int) ([]clandb.ClanStandingRow, error) {
	f.record("GetClansByLeaderboard")
	if f.GetClansByLeaderboardFunc != nil {
		return f.GetClansByLeaderboardFunc(ctx, db, mode, limit, offset)
	}
	rows := make([]clandb.ClanStandingRow, 0, len(f.store.clans))
	for id, c := range f.store.clans {
		rows = append(rows, clandb.ClanStandingRow{Clan: *copyClan(c), TotalPP: f.store.totalPP(id, mode)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPP != rows[j].TotalPP {
			return rows[i].TotalPP > rows[j].TotalPP
		}
		return rows[i].ID < rows[j].ID
	})
	if offset >= len(rows) {
		return []clandb.ClanStandingRow{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func (f *FakeClanRepo) GetClanMembersByPP(ctx context.Context, db bun.IDB, clanID int64, mode userdomain.GameMode) ([]clandb.MemberStandingRow, error) {
	f.record("GetClanMembersByPP")
	if f.GetClanMembersByPPFunc != nil {
		return f.GetClanMembersByPPFunc(ctx, db, clanID, mode)
	}
	var rows []clandb.MemberStandingRow
	for _, m := range f.store.members {
		if m.ClanID != clanID {
			continue
		}
		u := f.store.users[m.UserID]
		rows = append(rows, clandb.MemberStandingRow{
			Member:            *m,
			Username:          u.Username,
			AccountStatus:     u.AccountStatus,
			PerformancePoints: f.store.stats[m.UserID][mode],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PerformancePoints != rows[j].PerformancePoints {
			return rows[i].PerformancePoints > rows[j].PerformancePoints
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows, nil
}

func (f *FakeClanRepo) CountClans(ctx context.Context, db bun.IDB) (int, error) {
	f.record("CountClans")
	if f.CountClansFunc != nil {
		return f.CountClansFunc(ctx, db)
	}
	return len(f.store.clans), nil
}

// ------------------------
// Fake User Repo
// ------------------------

// FakeUserRepo provides a programmable stub for userdb.Repository.
type FakeUserRepo struct {
	store *memStore
	trace []string

	GetUserByIDFunc      func(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error)
	GetUserForUpdateFunc func(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error)
	SetClanIDFunc        func(ctx context.Context, db bun.IDB, userID int64, clanID *int64) error
	ClearClanIDFunc      func(ctx context.Context, db bun.IDB, clanID int64) (int64, error)
}

// NewFakeUserRepo initializes a new FakeUserRepo over store.
func NewFakeUserRepo(store *memStore) *FakeUserRepo {
	return &FakeUserRepo{store: store, trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeUserRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeUserRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeUserRepo) GetUserByID(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error) {
	f.record("GetUserByID")
	if f.GetUserByIDFunc != nil {
		return f.GetUserByIDFunc(ctx, db, userID)
	}
	u, ok := f.store.users[userID]
	if !ok {
		return nil, userdb.ErrNotFound
	}
	return copyUser(u), nil
}

func (f *FakeUserRepo) GetUserForUpdate(ctx context.Context, db bun.IDB, userID int64) (*userdb.User, error) {
	f.record("GetUserForUpdate")
	if f.GetUserForUpdateFunc != nil {
		return f.GetUserForUpdateFunc(ctx, db, userID)
	}
	u, ok := f.store.users[userID]
	if !ok {
		return nil, userdb.ErrNotFound
	}
	return copyUser(u), nil
}

func (f *FakeUserRepo) SetClanID(ctx context.Context, db bun.IDB, userID int64, clanID *int64) error {
	f.record("SetClanID")
	if f.SetClanIDFunc != nil {
		return f.SetClanIDFunc(ctx, db, userID, clanID)
	}
	u, ok := f.store.users[userID]
	if !ok {
		return userdb.ErrNoRowsAffected
	}
	if clanID == nil {
		u.ClanID = nil
		return nil
	}
	id := *clanID
	u.ClanID = &id
	return nil
}

func (f *FakeUserRepo) ClearClanID(ctx context.Context, db bun.IDB, clanID int64) (int64, error) {
	f.record("ClearClanID")
	if f.ClearClanIDFunc != nil {
		return f.ClearClanIDFunc(ctx, db, clanID)
	}
	var n int64
	for _, u := range f.store.users {
		if u.ClanID != nil && *u.ClanID == clanID {
			u.ClanID = nil
			n++
		}
	}
	return n, nil
}

// Interface assertions
var (
	_ clandb.Repository = (*FakeClanRepo)(nil)
	_ userdb.Repository = (*FakeUserRepo)(nil)
)
