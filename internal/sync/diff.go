package sync

import (
	"github.com/stacklok/rust-tracker/internal/names"
	"github.com/stacklok/rust-tracker/internal/roster"
	"github.com/stacklok/rust-tracker/internal/store"
)

// Transition is a presence change the engine has to apply
type Transition struct {
	Player store.Player
	Online bool
	// Repair marks a transition whose flag already matches the roster but
	// whose session does not. It is applied without an announcement.
	Repair bool
}

// Diff compares stored players against the online roster and returns the
// players whose online flag or session has to change. Players on the roster
// that are not stored are ignored. When the roster is incomplete, absence does
// not prove a player went offline, so only online transitions are returned.
//
// Team events update the flag without touching sessions, so the flag and the
// session state can disagree. Diff pairs them again: an online player without
// an open session gets one, and an absent player with an open session has it
// closed.
func Diff(players []store.Player, online *roster.Roster, normalize names.Normalizer) []Transition {
	if normalize == nil {
		normalize = names.Normalize
	}
	complete := online != nil && online.Complete

	var transitions []Transition
	for _, p := range players {
		isOnlineNow := online.Contains(normalize(p.Name))
		switch {
		case !isOnlineNow && !complete:
			continue
		case isOnlineNow != p.IsOnline:
			transitions = append(transitions, Transition{Player: p, Online: isOnlineNow})
		case isOnlineNow && !p.HasOpenSession, !isOnlineNow && p.HasOpenSession:
			transitions = append(transitions, Transition{Player: p, Online: isOnlineNow, Repair: true})
		}
	}
	return transitions
}
