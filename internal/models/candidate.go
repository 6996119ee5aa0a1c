package models

import (
	"strings"
	"time"
)

// Candidate is a profile owned by exactly one user.
type Candidate struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Experience int       `json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
}

// CandidateFilter holds the optional listing predicates. Set predicates are AND-ed.
type CandidateFilter struct {
	// Name matches case-insensitively as a substring of first OR last name.
	Name string
	// Experience matches exactly when non-nil.
	Experience *int
}

// Matches reports whether c satisfies every predicate set on f.
func (f CandidateFilter) Matches(c Candidate) bool {
	if f.Name != "" {
		needle := strings.ToLower(f.Name)
		if !strings.Contains(strings.ToLower(c.FirstName), needle) &&
			!strings.Contains(strings.ToLower(c.LastName), needle) {
			return false
		}
	}
	if f.Experience != nil && c.Experience != *f.Experience {
		return false
	}
	return true
}

// CandidatePage is one window of a filtered listing.
type CandidatePage struct {
	Items      []Candidate `json:"candidates"`
	Total      int         `json:"total_candidates"`
	TotalPages int         `json:"total_pages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}
