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

// FoldersList handles GET /folders.
func FoldersList(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders := d.Store.Folders()
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items": folders,
			"count": len(folders),
		})
	}
}

// FolderCreate handles POST /folders. For AI folders the suggestion
// fetch runs inline; a collaborator failure still leaves the folder
// created, just unpopulated.
func FolderCreate(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type createReq struct {
			Name     string `json:"name"`
			Type     string `json:"type"`
			AIPrompt string `json:"ai_prompt"`
			Hydrate  *bool  `json:"hydrate"` // default true
			Language string `json:"language"`
		}

		ctx := r.Context()
		var req createReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("invalid json", err))
			return
		}
		if req.Type == "" {
			req.Type = model.FolderStandard
		}

		folder := model.Folder{
			ID:        id.MustGenerate(id.PrefixFolder),
			Name:      strings.TrimSpace(req.Name),
			Type:      req.Type,
			CreatedAt: time.Now().UnixMilli(),
		}
		if req.Type == model.FolderAI {
			prompt := strings.TrimSpace(req.AIPrompt)
			if prompt != "" {
				folder.AIPrompt = &prompt
			}
		}
		if err := model.ValidateFolder(folder); err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest(err.Error(), err))
			return
		}

		d.Store.AddFolder(folder)

		var added []model.Movie
		if folder.Type == model.FolderAI {
			lang := langOrDefault(req.Language, d.Store.Language())
			hydrate := req.Hydrate == nil || *req.Hydrate
			suggestions := d.Pipeline.Generate(ctx, *folder.AIPrompt, lang)
			added = d.Pipeline.Merge(ctx, d.Store.Movies(), suggestions, folder.ID, lang, hydrate)
			for i := len(added) - 1; i >= 0; i-- {
				d.Store.AddMovie(added[i])
			}
		}

		pkghttpx.WriteJSON(w, http.StatusCreated, map[string]any{
			"folder": folder,
			"movies": added,
		})
	}
}

// FolderDelete handles DELETE /folders/{id}. Deleting cascades to the
// folder's movies; a missing id is still a 204.
func FolderDelete(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.DeleteFolder(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// FolderMovies handles GET /folders/{id}/movies.
func FolderMovies(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fid := r.PathValue("id")
		if _, ok := d.Store.FolderByID(fid); !ok {
			pkghttpx.WriteError(w, r, pkghttpx.NotFound("folder not found", nil))
			return
		}
		movies := d.Store.MoviesInFolder(fid)
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items": movies,
			"count": len(movies),
		})
	}
}

// FolderRefill handles POST /folders/{id}/refill: re-runs the AI prompt
// and inserts only titles the folder does not already hold.
func FolderRefill(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		fid := r.PathValue("id")
		folder, ok := d.Store.FolderByID(fid)
		if !ok {
			pkghttpx.WriteError(w, r, pkghttpx.NotFound("folder not found", nil))
			return
		}
		if folder.Type != model.FolderAI || folder.AIPrompt == nil {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("folder has no ai prompt", nil))
			return
		}

		lang := langOrDefault(r.URL.Query().Get("lang"), d.Store.Language())
		hydrate := r.URL.Query().Get("hydrate") != "false"
		suggestions := d.Pipeline.Generate(ctx, *folder.AIPrompt, lang)
		added := d.Pipeline.Merge(ctx, d.Store.Movies(), suggestions, fid, lang, hydrate)
		for i := len(added) - 1; i >= 0; i-- {
			d.Store.AddMovie(added[i])
		}

		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items": added,
			"count": len(added),
		})
	}
}
