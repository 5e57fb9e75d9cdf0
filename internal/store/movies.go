package store

import "cineshuffle-server/internal/model"

// AddMovie inserts at the front of the active library. The caller
// guarantees FolderID references a live folder or the temp sentinel.
func (s *Store) AddMovie(m model.Movie) {
	s.mu.Lock()
	s.movies = append([]model.Movie{m}, s.movies...)
	s.mu.Unlock()
}

// RemoveMovie deletes from the active library; no-op if absent.
// History is not touched.
func (s *Store) RemoveMovie(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.movies[:0]
	for _, m := range s.movies {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.movies = kept
}

// MarkAsWatched moves a movie from the active library into history,
// stamping WatchedAt. This is the only path from active to watched; a
// missing id leaves all state unchanged. The removal and the prepend
// happen under one lock, so the movie is never observable in both
// collections (or neither).
func (s *Store) MarkAsWatched(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, m := range s.movies {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	watched := s.movies[idx]
	ts := s.nowMillis()
	watched.WatchedAt = &ts

	s.movies = append(s.movies[:idx], s.movies[idx+1:]...)
	s.history = append([]model.Movie{watched}, s.history...)
}

// Movies returns a copy of the active library, most recent first.
func (s *Store) Movies() []model.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// MoviesInFolder returns the active movies referencing the folder,
// preserving library order.
func (s *Store) MoviesInFolder(folderID string) []model.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Movie
	for _, m := range s.movies {
		if m.FolderID == folderID {
			out = append(out, m)
		}
	}
	return out
}

// MovieByID looks up an active movie.
func (s *Store) MovieByID(id string) (model.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.ID == id {
			return m, true
		}
	}
	return model.Movie{}, false
}
