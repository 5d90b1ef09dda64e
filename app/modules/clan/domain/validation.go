package clandomain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLength        = 2
	MaxNameLength        = 32
	MaxAvatarURLLength   = 8192
	MaxDescriptionLength = 2048

	SupporterNameCooldown = 30 * 24 * time.Hour
	DefaultNameCooldown   = 36500 * 24 * time.Hour
)

var (
	ErrInvalidClanName    = errors.New("invalid clan name")
	ErrAvatarURLTooLong   = fmt.Errorf("avatar url must be at most %d characters", MaxAvatarURLLength)
	ErrDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)

	tagPattern = regexp.MustCompile(`^[A-Z0-9]{3}$`)
)

// NormalizeName trims name and checks its length.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidClanName)
	}
	n := utf8.RuneCountInString(trimmed)
	if n < MinNameLength || n > MaxNameLength {
		return "", fmt.Errorf("%w: name must be between %d and %d characters", ErrInvalidClanName, MinNameLength, MaxNameLength)
	}
	return trimmed, nil
}

// NormalizeTag trims and uppercases tag. Empty input clears the tag. ok is
// false when a non-empty tag does not match [A-Z0-9]{3}.
func NormalizeTag(tag *string) (normalized *string, ok bool) {
	if tag == nil {
		return nil, true
	}
	v := strings.ToUpper(strings.TrimSpace(*tag))
	if v == "" {
		return nil, true
	}
	if !tagPattern.MatchString(v) {
		return nil, false
	}
	return &v, true
}

// NormalizeOptionalText trims s and returns nil for empty input.
func NormalizeOptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ValidateAvatarURL checks the avatar length cap.
func ValidateAvatarURL(url *string) error {
	if url != nil && utf8.RuneCountInString(*url) > MaxAvatarURLLength {
		return ErrAvatarURLTooLong
	}
	return nil
}

// ValidateDescription checks the description length cap.
func ValidateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// NameCooldown is the minimum time between renames.
func NameCooldown(hasSupporter bool) time.Duration {
	if hasSupporter {
		return SupporterNameCooldown
	}
	return DefaultNameCooldown
}

// NextNameChangeAt returns the earliest time the clan may be renamed. A clan
// that was never renamed may be renamed from creation on.
func (c Clan) NextNameChangeAt(hasSupporter bool) time.Time {
	if c.NameChangedAt == nil {
		return c.CreatedAt
	}
	return c.NameChangedAt.Add(NameCooldown(hasSupporter))
}

// DisplayName decorates username with the clan tag, e.g. "[ABC] peppy".
func DisplayName(username string, tag *string) string {
	if tag == nil || *tag == "" {
		return username
	}
	return "[" + *tag + "] " + username
}
