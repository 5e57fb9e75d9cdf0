package routes

import (
	"net/http"
	"time"

	"cineshuffle-server/internal/deps"

	pkghttpx "cineshuffle-server/pkg/httpx"
)

// Health returns a handler that responds with service status.
func Health(d deps.ServerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(d.StartedAt).Seconds())
		active, watched := d.Store.Counts()
		pkghttpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"service":        d.Name,
			"uptime_seconds": uptime,
			"active_movies":  active,
			"watched_movies": watched,
		})
	}
}
