package clandto

import (
	"time"

	clandomain "github.com/Black-And-White-Club/clan-service/app/modules/clan/domain"
)

// UserResponse is the public view of a clan member's account.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsOnline    bool   `json:"is_online"`
}

// ClanResponse is a clan with its total pp for the requested mode.
type ClanResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Tag         *string   `json:"tag,omitempty"`
	AvatarURL   *string   `json:"avatar_url"`
	Description *string   `json:"description"`
	TotalPP     float64   `json:"total_pp"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClanMemberResponse is one row of a clan's member list.
type ClanMemberResponse struct {
	User UserResponse `json:"user"`
	Role string       `json:"role"`
	PP   float64      `json:"pp"`
}

type ClanDetailsResponse struct {
	Clan    ClanResponse         `json:"clan"`
	Members []ClanMemberResponse `json:"members"`
}

type ClansLeaderboardResponse struct {
	Clans      []ClanResponse `json:"clans"`
	TotalCount int            `json:"total_count"`
}

// RoleLabel renders a role as the lowercase label clients expect.
func RoleLabel(role clandomain.Role) string {
	if role == clandomain.RoleCreator {
		return "creator"
	}
	return "member"
}

// NewClanResponse projects a clan and its total.
func NewClanResponse(clan clandomain.Clan, totalPP float64) ClanResponse {
	return ClanResponse{
		ID:          clan.ID,
		Name:        clan.Name,
		Tag:         clan.Tag,
		AvatarURL:   clan.AvatarURL,
		Description: clan.Description,
		TotalPP:     totalPP,
		CreatedAt:   clan.CreatedAt.UTC(),
	}
}

// NewClanDetailsResponse projects clan details. online flags members seen recently;
// a nil map marks everyone offline.
func NewClanDetailsResponse(details *clandomain.ClanDetails, online map[int64]bool) ClanDetailsResponse {
	members := make([]ClanMemberResponse, 0, len(details.Members))
	for _, m := range details.Members {
		members = append(members, ClanMemberResponse{
			User: UserResponse{
				ID:          m.UserID,
				Username:    m.Username,
				DisplayName: clandomain.DisplayName(m.Username, details.Clan.Tag),
				IsOnline:    online[m.UserID],
			},
			Role: RoleLabel(m.Role),
			PP:   m.PerformancePoints,
		})
	}
	return ClanDetailsResponse{
		Clan:    NewClanResponse(details.Clan, details.TotalPP),
		Members: members,
	}
}

// NewClansLeaderboardResponse projects a leaderboard page.
func NewClansLeaderboardResponse(standings []clandomain.ClanStanding, totalCount int) ClansLeaderboardResponse {
	clans := make([]ClanResponse, 0, len(standings))
	for _, s := range standings {
		clans = append(clans, NewClanResponse(s.Clan, s.TotalPP))
	}
	return ClansLeaderboardResponse{Clans: clans, TotalCount: totalCount}
}

// MemberIDs lists the user ids of the detail's members, in order.
func MemberIDs(details *clandomain.ClanDetails) []int64 {
	ids := make([]int64, 0, len(details.Members))
	for _, m := range details.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}
