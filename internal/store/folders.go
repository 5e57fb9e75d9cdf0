package store

import "cineshuffle-server/internal/model"

// AddFolder inserts at the front so listings come back most-recent-first.
// Folder invariants are the caller's job (model.ValidateFolder).
func (s *Store) AddFolder(f model.Folder) {
	s.mu.Lock()
	s.folders = append([]model.Folder{f}, s.folders...)
	s.mu.Unlock()
}

// DeleteFolder removes the folder and, atomically, every active movie
// that references it. No-op if the id does not exist. History entries
// are untouched.
func (s *Store) DeleteFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.folders[:0]
	for _, f := range s.folders {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.folders = kept

	remaining := s.movies[:0]
	for _, m := range s.movies {
		if m.FolderID != id {
			remaining = append(remaining, m)
		}
	}
	s.movies = remaining
}

// Folders returns a copy of the folder collection, most recent first.
func (s *Store) Folders() []model.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// FolderByID returns the folder and whether it exists.
func (s *Store) FolderByID(id string) (model.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return model.Folder{}, false
}
