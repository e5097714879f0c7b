// Package roster fetches the set of players currently online on a server from
// the BattleMetrics JSON:API.
package roster

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks -source=roster.go Fetcher

// ErrRosterUnavailable is returned when not even the first page could be fetched
var ErrRosterUnavailable = errors.New("roster unavailable")

// Fetcher retrieves the online roster of a roster source
type Fetcher interface {
	FetchOnlineRoster(ctx context.Context, sourceID string) (*Roster, error)
}

// Roster is the set of normalized names online on a server. A roster with
// Complete set to false is missing at least one page.
type Roster struct {
	SourceID string
	Names    map[string]struct{}
	Complete bool
	Pages    int
}

// NewRoster returns a complete roster holding the given, already normalized, names
func NewRoster(sourceID string, names ...string) *Roster {
	r := &Roster{
		SourceID: sourceID,
		Names:    make(map[string]struct{}, len(names)),
		Complete: true,
	}
	for _, n := range names {
		r.Names[n] = struct{}{}
	}
	return r
}

// Contains reports whether the normalized name is on the roster
func (r *Roster) Contains(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Names[name]
	return ok
}

// Len returns the number of distinct names
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Names)
}
