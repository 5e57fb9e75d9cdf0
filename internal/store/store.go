// Package store is the single source of truth for folders, the active
// movie library and the watch history. It is a plain injectable value:
// no globals, no persistence, every mutation atomic under one lock.
//
// Mutations are total. A missing id is absorbed as a silent no-op rather
// than an error; idempotent deletes keep callers simple.
package store

import (
	"sync"
	"time"

	"cineshuffle-server/internal/model"
)

type Store struct {
	mu       sync.RWMutex
	folders  []model.Folder
	movies   []model.Movie
	history  []model.Movie
	language string

	now func() time.Time
}

func New() *Store {
	return &Store{
		language: model.LangEN,
		now:      time.Now,
	}
}

// NewWithClock builds a store with an injected clock, for tests that
// assert on timestamps.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// SetLanguage sets the process-wide response language. Unknown tags are
// ignored.
func (s *Store) SetLanguage(lang string) {
	if _, ok := model.AllowedLanguages[lang]; !ok {
		return
	}
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
}

func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Counts returns the number of active and watched movies.
func (s *Store) Counts() (active, watched int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies), len(s.history)
}
