package model

import (
	"errors"
	"strings"
)

// Folder types.
const (
	FolderStandard = "standard"
	FolderAI       = "ai"
)

// Supported response languages.
const (
	LangEN = "en"
	LangTR = "tr"
)

var AllowedLanguages = map[string]struct{}{
	LangEN: {},
	LangTR: {},
}

// TempFolderID is the sentinel folder reference for movies that are not
// attached to any folder, e.g. an ephemeral quick-shuffle pool.
const TempFolderID = "temp"

type Movie struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      string  `json:"year,omitempty"`
	Overview  *string `json:"overview,omitempty"`
	PosterURL *string `json:"poster_url,omitempty"`
	FolderID  string  `json:"folder_id"`
	AddedAt   int64   `json:"added_at"`             // unix millis
	WatchedAt *int64  `json:"watched_at,omitempty"` // set once, on the watch transition
}

type Folder struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	AIPrompt  *string `json:"ai_prompt,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

// AIResponseMovie is the transient suggestion shape returned by the
// generative collaborator. It is never stored as-is; the merge pipeline
// turns it into a Movie first.
type AIResponseMovie struct {
	Title        string `json:"title"`
	Year         string `json:"year"`
	ShortSummary string `json:"short_summary"`
	PosterURL    string `json:"poster_url,omitempty"`
}

// Metadata is a hydration lookup result for a single title.
type Metadata struct {
	PosterURL *string `json:"poster_url,omitempty"`
	Overview  *string `json:"overview,omitempty"`
}

var (
	ErrEmptyName      = errors.New("folder name must not be empty")
	ErrMissingPrompt  = errors.New("ai folder requires a non-empty prompt")
	ErrUnwantedPrompt = errors.New("standard folder must not carry a prompt")
	ErrBadFolderType  = errors.New("unknown folder type")
)

// ValidateFolder enforces construction-time folder invariants. The store
// trusts its inputs, so callers run this before inserting.
func ValidateFolder(f Folder) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	switch f.Type {
	case FolderAI:
		if f.AIPrompt == nil || strings.TrimSpace(*f.AIPrompt) == "" {
			return ErrMissingPrompt
		}
	case FolderStandard:
		if f.AIPrompt != nil {
			return ErrUnwantedPrompt
		}
	default:
		return ErrBadFolderType
	}
	return nil
}

// placeholderHosts are poster sources that stand in for "no real image".
var placeholderHosts = []string{"picsum.photos"}

// HasRealPoster reports whether the movie carries a usable poster URL.
// Absent URLs and known placeholder hosts fall back to a generated panel.
func HasRealPoster(m Movie) bool {
	if m.PosterURL == nil || *m.PosterURL == "" {
		return false
	}
	for _, h := range placeholderHosts {
		if strings.Contains(*m.PosterURL, h) {
			return false
		}
	}
	return true
}
