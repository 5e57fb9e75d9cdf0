package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"
	"cineshuffle-server/internal/shuffle"

	pkghttpx "cineshuffle-server/pkg/httpx"
)

// ShuffleStart handles POST /shuffle. The pool comes from a folder's
// active movies, from a free-text mood prompt (suggestions fetched
// server-side into an ephemeral temp pool), or from an inline batch.
// A failed or empty suggestion fetch degrades to an empty pool, which
// is then rejected like any other empty pool.
func ShuffleStart(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type poolMovie struct {
			Title     string `json:"title"`
			Year      string `json:"year"`
			Overview  string `json:"overview"`
			PosterURL string `json:"poster_url"`
		}
		type startReq struct {
			FolderID string      `json:"folder_id"`
			Prompt   string      `json:"prompt"`
			Language string      `json:"language"`
			Pool     []poolMovie `json:"pool"`
		}

		var req startReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("invalid json", err))
			return
		}

		var pool []model.Movie
		switch {
		case req.FolderID != "":
			if _, ok := d.Store.FolderByID(req.FolderID); !ok {
				pkghttpx.WriteError(w, r, pkghttpx.NotFound("folder not found", nil))
				return
			}
			pool = d.Store.MoviesInFolder(req.FolderID)
		case strings.TrimSpace(req.Prompt) != "":
			// Quick shuffle: mood prompt to temp pool, no hydration and
			// no library dedupe; the pool lives only in this session.
			lang := langOrDefault(req.Language, d.Store.Language())
			suggestions := d.Pipeline.Generate(r.Context(), strings.TrimSpace(req.Prompt), lang)
			pool = d.Pipeline.Merge(r.Context(), nil, suggestions, model.TempFolderID, lang, false)
		default:
			now := time.Now().UnixMilli()
			for _, p := range req.Pool {
				m := model.Movie{
					ID:       id.MustGenerate(id.PrefixMovie),
					Title:    p.Title,
					Year:     p.Year,
					FolderID: model.TempFolderID,
					AddedAt:  now,
				}
				if p.Overview != "" {
					ov := p.Overview
					m.Overview = &ov
				}
				if p.PosterURL != "" {
					u := p.PosterURL
					m.PosterURL = &u
				}
				pool = append(pool, m)
			}
		}

		// Session lifetime is decoupled from the request: the animation
		// keeps ticking after this handler returns.
		session, err := d.Shuffler.Start(context.Background(), pool)
		if err != nil {
			switch {
			case errors.Is(err, shuffle.ErrEmptyPool):
				pkghttpx.WriteError(w, r, pkghttpx.EmptyPool("nothing to shuffle", err))
			case errors.Is(err, shuffle.ErrShuffleInProgress):
				pkghttpx.WriteError(w, r, pkghttpx.Conflict("shuffle already running", err))
			default:
				pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to start shuffle", err))
			}
			return
		}
		pkghttpx.WriteJSON(w, http.StatusCreated, session.Snapshot())
	}
}

// ShuffleGet handles GET /shuffle/{id}: the observable session state,
// including the currently highlighted frame and, once settled, the winner.
func ShuffleGet(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := d.Shuffler.Get(r.PathValue("id"))
		if err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.NotFound("shuffle session not found", err))
			return
		}
		pkghttpx.WriteJSON(w, http.StatusOK, session.Snapshot())
	}
}

// ShuffleCommit handles POST /shuffle/{id}/commit: fixes the winner and
// performs the watch transition. Library winners go through the active
// collection; ephemeral winners are recorded straight into history.
func ShuffleCommit(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		winner, err := d.Shuffler.Commit(r.PathValue("id"))
		if err != nil {
			switch {
			case errors.Is(err, shuffle.ErrSessionNotFound):
				pkghttpx.WriteError(w, r, pkghttpx.NotFound("shuffle session not found", err))
			case errors.Is(err, shuffle.ErrNotSettled):
				pkghttpx.WriteError(w, r, pkghttpx.Conflict("shuffle has not settled", err))
			default:
				pkghttpx.WriteError(w, r, pkghttpx.Internal("failed to commit shuffle", err))
			}
			return
		}

		if winner.FolderID == model.TempFolderID {
			d.Store.AddToHistory(winner)
		} else {
			d.Store.MarkAsWatched(winner.ID)
		}
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"winner": winner,
		})
	}
}

// ShuffleCancel handles DELETE /shuffle/{id}: discards the session with
// no store mutation. Legal from any state; idempotent.
func ShuffleCancel(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Shuffler.Cancel(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}
}
