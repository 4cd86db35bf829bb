// Package filter evaluates user-supplied filter tokens against records.
//
// A token beginning with the hashtag marker matches by exact tag equality
// only; any other token matches by text substring or exact tag equality.
// Matching is case-insensitive throughout, folding happens once at
// construction.
package filter

import (
	"strings"

	errs "twitterhistory/pkg/errors"
	"twitterhistory/pkg/models"
)

// Filter is an immutable, pure predicate over records. The zero value
// matches nothing; construct with New.
type Filter struct {
	name        string // original spelling, used for sheet naming
	token       string // case-folded, hashtag marker stripped
	hashtagOnly bool
}

// New constructs a filter from one user-supplied token. A leading hashtag
// marker restricts the filter to exact tag matching and is stripped before
// storage. A token that is empty after stripping is rejected.
func New(token string) (Filter, error) {
	name := token
	hashtagOnly := strings.HasPrefix(token, "#")
	if hashtagOnly {
		token = token[1:]
	}
	token = strings.ToLower(token)
	if token == "" {
		return Filter{}, errs.InvalidFilter(name)
	}

	return Filter{
		name:        name,
		token:       token,
		hashtagOnly: hashtagOnly,
	}, nil
}

// Parse constructs filters from raw tokens, failing fast on the first
// invalid one.
func Parse(tokens []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(tokens))
	for _, token := range tokens {
		f, err := New(token)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Name returns the original, unfolded spelling of the token
func (f Filter) Name() string {
	return f.name
}

// HashtagOnly reports whether the filter matches by tag equality only
func (f Filter) HashtagOnly() bool {
	return f.hashtagOnly
}

// Matches reports whether a record matches the filter. Tag comparison is
// exact equality after folding, never substring; text comparison is folded
// substring containment.
func (f Filter) Matches(rec models.Record) bool {
	if f.token == "" {
		return false
	}
	for _, tag := range rec.Hashtags {
		if strings.EqualFold(tag, f.token) {
			return true
		}
	}
	if f.hashtagOnly {
		return false
	}
	return strings.Contains(strings.ToLower(rec.Text), f.token)
}

// MatchesAll reports whether a record matches every filter in the set
func MatchesAll(rec models.Record, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(rec) {
			return false
		}
	}
	return true
}
