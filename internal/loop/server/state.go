package server

import "sort"

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// Leaderboard returns up to n connected clients ordered by their best score.
// Clients without a finished session are left out.
func (s *Server) Leaderboard(n int) []TopScoreEntry {
	s.mu.RLock()
	entries := make([]TopScoreEntry, 0, len(s.clients))
	for id, handle := range s.clients {
		if handle.Games == 0 {
			continue
		}
		entries = append(entries, TopScoreEntry{
			Username: handle.Username,
			Score:    handle.BestScore,
			clientID: id,
		})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].clientID < entries[j].clientID
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
