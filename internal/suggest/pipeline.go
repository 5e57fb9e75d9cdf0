// Package suggest converts free-text prompts into ready-to-insert movie
// records: collaborator call, case-insensitive dedupe against the target
// folder, and optional per-suggestion metadata hydration.
package suggest

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"
	pkgcache "cineshuffle-server/pkg/cache"
)

// Suggester is the generative collaborator contract.
type Suggester interface {
	Suggest(ctx context.Context, prompt, lang string) ([]model.AIResponseMovie, error)
}

// Hydrator is the metadata lookup collaborator contract. A (nil, nil)
// return means "no match".
type Hydrator interface {
	Lookup(ctx context.Context, title, year, lang string) (*model.Metadata, error)
}

const lookupTTL = 24 * time.Hour

type Pipeline struct {
	suggester Suggester
	hydrator  Hydrator // nil when metadata lookup is not configured
	cache     pkgcache.Cache

	// DedupeWithinBatch also drops duplicate titles inside one suggestion
	// batch. Off by default: batches are small and the collaborator is
	// asked for distinct movies already.
	DedupeWithinBatch bool
}

func NewPipeline(s Suggester, h Hydrator, c pkgcache.Cache) *Pipeline {
	if c == nil {
		c = pkgcache.NewInMemory()
	}
	return &Pipeline{suggester: s, hydrator: h, cache: c}
}

// Generate fetches suggestions for a prompt. Collaborator failures are
// logged and degraded to an empty list; folder creation and refill must
// complete regardless.
func (p *Pipeline) Generate(ctx context.Context, prompt, lang string) []model.AIResponseMovie {
	if p.suggester == nil {
		log.Warn().Msg("suggestion collaborator not configured")
		return nil
	}
	suggestions, err := p.suggester.Suggest(ctx, prompt, lang)
	if err != nil {
		log.Error().Err(err).Str("lang", lang).Msg("suggestion generation failed")
		return nil
	}
	return suggestions
}

// Merge turns a suggestion batch into movies for the target folder.
// Titles already present in the folder are dropped (case-insensitive);
// with hydrate set, survivors are hydrated concurrently, each falling
// back to its own summary and poster on lookup failure. Order follows
// the batch.
func (p *Pipeline) Merge(ctx context.Context, existing []model.Movie, suggestions []model.AIResponseMovie, folderID, lang string, hydrate bool) []model.Movie {
	taken := make(map[string]struct{})
	for _, m := range existing {
		if m.FolderID == folderID {
			taken[strings.ToLower(m.Title)] = struct{}{}
		}
	}

	var fresh []model.AIResponseMovie
	for _, s := range suggestions {
		key := strings.ToLower(s.Title)
		if _, dup := taken[key]; dup {
			continue
		}
		if p.DedupeWithinBatch {
			taken[key] = struct{}{}
		}
		fresh = append(fresh, s)
	}
	if len(fresh) == 0 {
		return nil
	}

	// Fan out one lookup per suggestion; join before returning. A failed
	// or absent lookup degrades that one suggestion, never the batch.
	hydrated := make([]*model.Metadata, len(fresh))
	if hydrate && p.hydrator != nil {
		g, gctx := errgroup.WithContext(ctx)
		for i, s := range fresh {
			g.Go(func() error {
				hydrated[i] = p.lookup(gctx, s.Title, s.Year, lang)
				return nil
			})
		}
		_ = g.Wait()
	}

	now := time.Now().UnixMilli()
	out := make([]model.Movie, 0, len(fresh))
	for i, s := range fresh {
		m := model.Movie{
			ID:       id.MustGenerate(id.PrefixMovie),
			Title:    s.Title,
			Year:     s.Year,
			FolderID: folderID,
			AddedAt:  now,
		}
		if md := hydrated[i]; md != nil {
			m.Overview = md.Overview
			m.PosterURL = md.PosterURL
		}
		if m.Overview == nil && s.ShortSummary != "" {
			ov := s.ShortSummary
			m.Overview = &ov
		}
		if m.PosterURL == nil && s.PosterURL != "" {
			pu := s.PosterURL
			m.PosterURL = &pu
		}
		// Placeholder poster URLs carry no real image; store them as
		// absent so consumers fall back to the generated panel.
		if m.PosterURL != nil && !model.HasRealPoster(m) {
			m.PosterURL = nil
		}
		out = append(out, m)
	}
	return out
}

// lookup memoizes hydration results; failures are logged and absorbed.
func (p *Pipeline) lookup(ctx context.Context, title, year, lang string) *model.Metadata {
	key := "tmdb:lookup:" + lang + ":" + strings.ToLower(title) + ":" + year
	if raw, ok := p.cache.Get(ctx, key); ok {
		var md model.Metadata
		if err := json.Unmarshal([]byte(raw), &md); err == nil {
			return &md
		}
	}
	md, err := p.hydrator.Lookup(ctx, title, year, lang)
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("metadata lookup failed")
		return nil
	}
	if md == nil {
		return nil
	}
	if b, err := json.Marshal(md); err == nil {
		_ = p.cache.Set(ctx, key, string(b), lookupTTL)
	}
	return md
}
