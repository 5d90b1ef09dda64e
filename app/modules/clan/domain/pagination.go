package clandomain

import (
	"fmt"
	"math"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
	// MaxPage keeps Offset well inside int64 and Postgres bigint range.
	MaxPage          = math.MaxInt32
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Validate checks page in [1, MaxPage] and limit in [1, MaxPageLimit].
func (p Pagination) Validate() error {
	if p.Page < 1 || p.Page > MaxPage {
		return fmt.Errorf("page must be between 1 and %d", MaxPage)
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxPageLimit)
	}
	return nil
}

// Offset is the zero-based row offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
