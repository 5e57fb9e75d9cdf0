package routes

import (
	"encoding/json"
	"net/http"

	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/model"

	pkghttpx "cineshuffle-server/pkg/httpx"
)

// LanguageGet handles GET /settings/language.
func LanguageGet(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"language": d.Store.Language(),
		})
	}
}

// LanguageSet handles PUT /settings/language.
func LanguageSet(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type langReq struct {
			Language string `json:"language"`
		}
		var req langReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("invalid json", err))
			return
		}
		if _, ok := model.AllowedLanguages[req.Language]; !ok {
			pkghttpx.WriteError(w, r, pkghttpx.BadRequest("unsupported language", nil))
			return
		}
		d.Store.SetLanguage(req.Language)
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"language": d.Store.Language(),
		})
	}
}
