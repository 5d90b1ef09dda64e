package authdomain

import "time"

// Claims is the verified content of a bearer token.
type Claims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
