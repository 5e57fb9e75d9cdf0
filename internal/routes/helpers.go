package routes

import (
	"cineshuffle-server/internal/model"
)

// langOrDefault resolves the response language for a request: explicit
// query value if valid, otherwise the store-wide setting.
func langOrDefault(requested, stored string) string {
	if _, ok := model.AllowedLanguages[requested]; ok {
		return requested
	}
	if _, ok := model.AllowedLanguages[stored]; ok {
		return stored
	}
	return model.LangEN
}
