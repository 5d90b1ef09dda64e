package clandto

// CreateClanRequest is the body of POST /clan.
type CreateClanRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

type EditClanNameRequest struct {
	Name string `json:"name"`
}

type EditClanAvatarRequest struct {
	AvatarURL *string `json:"avatar_url"`
}

type EditClanDescriptionRequest struct {
	Description *string `json:"description"`
}

type EditClanTagRequest struct {
	Tag *string `json:"tag"`
}

// AdminCommand is a text command received on the admin command stream.
type AdminCommand struct {
	CallerID int64  `json:"caller_id"`
	Text     string `json:"text"`
}
