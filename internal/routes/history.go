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

// HistoryList handles GET /history, most recently watched first.
func HistoryList(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := d.Store.History()
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items": items,
			"count": len(items),
		})
	}
}

// HistoryAdd handles POST /history: records an ephemeral movie (one that
// never lived in the library, e.g. a quick-shuffle winner) as watched.
func HistoryAdd(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type addReq struct {
			Title     string `json:"title"`
			Year      string `json:"year"`
			Overview  string `json:"overview"`
			PosterURL string `json:"poster_url"`
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
		m := model.Movie{
			ID:       id.MustGenerate(id.PrefixMovie),
			Title:    strings.TrimSpace(req.Title),
			Year:     req.Year,
			FolderID: model.TempFolderID,
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
		d.Store.AddToHistory(m)
		pkghttpx.WriteJSON(w, http.StatusCreated, m)
	}
}

// HistoryDelete handles DELETE /history/{id}. Idempotent.
func HistoryDelete(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.RemoveFromHistory(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}
}
