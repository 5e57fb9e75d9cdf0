package store

import "cineshuffle-server/internal/model"

// AddToHistory stamps WatchedAt and prepends directly to history,
// bypassing the active library. Used for ephemeral shuffle winners whose
// pool was never persisted as library movies.
func (s *Store) AddToHistory(m model.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.nowMillis()
	m.WatchedAt = &ts
	s.history = append([]model.Movie{m}, s.history...)
}

// RemoveFromHistory deletes a history entry; no-op if absent.
func (s *Store) RemoveFromHistory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.history[:0]
	for _, m := range s.history {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.history = kept
}

// History returns a copy of the watch log, most recently watched first.
func (s *Store) History() []model.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Movie, len(s.history))
	copy(out, s.history)
	return out
}
