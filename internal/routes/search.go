package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"

	pkghttpx "cineshuffle-server/pkg/httpx"
)

const searchCacheTTL = 10 * time.Minute

// Search handles GET /search?query=&lang= for the manual-add flow. The
// metadata service is the primary source; when it is unconfigured, fails
// or returns nothing, the generative collaborator fills in. Collaborator
// failures degrade to an empty result set, never an error response.
func Search(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("query must not be empty", nil))
			return
		}
		lang := langOrDefault(r.URL.Query().Get("lang"), d.Store.Language())

		cacheKey := "search:" + lang + ":" + strings.ToLower(query)
		if cached, ok := d.Cache.Get(ctx, cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}

		var movies []model.Movie
		if d.TMDB.Configured() {
			found, err := d.TMDB.SearchMovies(ctx, query, lang)
			if err != nil {
				log.Warn().Err(err).Str("query", query).Msg("metadata search failed")
			} else {
				movies = found
			}
		}

		if len(movies) == 0 && d.Fallback != nil {
			results, err := d.Fallback.Search(ctx, query, lang)
			if err != nil {
				log.Warn().Err(err).Str("query", query).Msg("fallback search failed")
			}
			now := time.Now().UnixMilli()
			for _, s := range results {
				m := model.Movie{
					ID:       id.MustGenerate(id.PrefixMovie),
					Title:    s.Title,
					Year:     s.Year,
					FolderID: model.TempFolderID,
					AddedAt:  now,
				}
				if s.ShortSummary != "" {
					ov := s.ShortSummary
					m.Overview = &ov
				}
				if s.PosterURL != "" {
					p := s.PosterURL
					m.PosterURL = &p
				}
				movies = append(movies, m)
			}
		}

		resp := map[string]any{
			"items": movies,
			"count": len(movies),
		}
		b, _ := json.Marshal(resp)
		_ = d.Cache.Set(ctx, cacheKey, string(b), searchCacheTTL)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}
