package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"

	pkghttpx "cineshuffle-server/pkg/httpx"
)

// MoviesList handles GET /movies.
func MoviesList(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies := d.Store.Movies()
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items": movies,
			"count": len(movies),
		})
	}
}

// MovieAdd handles POST /movies: the manual-add flow, either typed in by
// hand or picked from a search result.
func MovieAdd(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type addReq struct {
			Title     string `json:"title"`
			Year      string `json:"year"`
			Overview  string `json:"overview"`
			PosterURL string `json:"poster_url"`
			FolderID  string `json:"folder_id"`
		}

		var req addReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("invalid json", err))
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("title must not be empty", nil))
			return
		}
		if req.FolderID == "" {
			req.FolderID = model.TempFolderID
		}
		if req.FolderID != model.TempFolderID {
			if _, ok := d.Store.FolderByID(req.FolderID); !ok {
				pkghttpx.WriteError(w, r, pkghttpx.BadRequest("unknown folder", nil))
				return
			}
		}

		m := model.Movie{
			ID:       id.MustGenerate(id.PrefixMovie),
			Title:    strings.TrimSpace(req.Title),
			Year:     req.Year,
			FolderID: req.FolderID,
			AddedAt:  time.Now().UnixMilli(),
		}
		if req.Overview != "" {
			ov := req.Overview
			m.Overview = &ov
		}
		if req.PosterURL != "" {
			p := req.PosterURL
			m.PosterURL = &p
		}
		d.Store.AddMovie(m)
		pkghttpx.WriteJSON(w, http.StatusCreated, m)
	}
}

// MovieDelete handles DELETE /movies/{id}. Idempotent.
func MovieDelete(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.RemoveMovie(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// MovieWatched handles POST /movies/{id}/watched: the watch transition
// out of the active library. The store absorbs unknown ids, so repeated
// calls stay safe; the response reports whether a transition happened.
func MovieWatched(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mid := r.PathValue("id")
		_, existed := d.Store.MovieByID(mid)
		d.Store.MarkAsWatched(mid)
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"moved": existed,
		})
	}
}
