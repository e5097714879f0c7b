// Package helpers provides fixtures for the tracker integration tests.
package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RosterMockServer serves the online players of roster sources the way the
// BattleMetrics players endpoint does, one page per request.
type RosterMockServer struct {
	*httptest.Server

	mu     sync.Mutex
	online map[string][]string
	hits   int
}

// NewRosterMockServer starts a roster API without online players
func NewRosterMockServer() *RosterMockServer {
	m := &RosterMockServer{online: make(map[string][]string)}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// SetOnline replaces the online players of a source
func (m *RosterMockServer) SetOnline(sourceID string, names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online[sourceID] = names
}

// Hits returns how many pages were served
func (m *RosterMockServer) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

func (m *RosterMockServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/players" {
		http.NotFound(w, r)
		return
	}

	m.mu.Lock()
	m.hits++
	names := m.online[r.URL.Query().Get("filter[servers]")]
	m.mu.Unlock()

	type attributes struct {
		Name string `json:"name"`
	}
	type player struct {
		Type       string     `json:"type"`
		Attributes attributes `json:"attributes"`
	}
	page := struct {
		Data  []player          `json:"data"`
		Links map[string]string `json:"links"`
	}{Data: []player{}, Links: map[string]string{}}
	for _, n := range names {
		page.Data = append(page.Data, player{Type: "player", Attributes: attributes{Name: n}})
	}

	w.Header().Set("Content-Type", "application/vnd.api+json")
	_ = json.NewEncoder(w).Encode(page)
}
