package deps

import (
	"context"
	"time"

	"cineshuffle-server/internal/model"
	"cineshuffle-server/internal/shuffle"
	"cineshuffle-server/internal/store"
	"cineshuffle-server/internal/suggest"
	pkgcache "cineshuffle-server/pkg/cache"
	pkgtmdb "cineshuffle-server/pkg/tmdb"
)

// Searcher is the manual-add fallback collaborator: same shape as the
// suggestion collaborator, queried when the primary metadata search
// yields nothing.
type Searcher interface {
	Search(ctx context.Context, query, lang string) ([]model.AIResponseMovie, error)
}

// ServerDeps holds the dependencies required by handlers and server.
type ServerDeps struct {
	Store     *store.Store
	Pipeline  *suggest.Pipeline
	Shuffler  *shuffle.Engine
	TMDB      *pkgtmdb.Client // nil when not configured
	Fallback  Searcher        // nil when not configured
	Cache     pkgcache.Cache
	Name      string
	StartedAt time.Time
}
