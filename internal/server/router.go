package server

import (
	"net/http"
	"time"

	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/routes"
)

type Server struct {
	deps.ServerDeps
	corsOrigins []string
}

func New(d deps.ServerDeps, corsOrigins []string) *Server {
	if d.Name == "" {
		d.Name = "cineshuffle-server"
	}
	if d.StartedAt.IsZero() {
		d.StartedAt = time.Now()
	}
	return &Server{ServerDeps: d, corsOrigins: corsOrigins}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	sd := s.ServerDeps

	// Endpoints declared here for easy scanning
	mux.HandleFunc("GET /health", routes.Health(sd))

	mux.HandleFunc("GET /folders", routes.FoldersList(sd))
	mux.HandleFunc("POST /folders", routes.FolderCreate(sd))
	mux.HandleFunc("DELETE /folders/{id}", routes.FolderDelete(sd))
	mux.HandleFunc("GET /folders/{id}/movies", routes.FolderMovies(sd))
	mux.HandleFunc("POST /folders/{id}/refill", routes.FolderRefill(sd))

	mux.HandleFunc("GET /movies", routes.MoviesList(sd))
	mux.HandleFunc("POST /movies", routes.MovieAdd(sd))
	mux.HandleFunc("DELETE /movies/{id}", routes.MovieDelete(sd))
	mux.HandleFunc("POST /movies/{id}/watched", routes.MovieWatched(sd))

	mux.HandleFunc("GET /history", routes.HistoryList(sd))
	mux.HandleFunc("POST /history", routes.HistoryAdd(sd))
	mux.HandleFunc("DELETE /history/{id}", routes.HistoryDelete(sd))

	mux.HandleFunc("GET /search", routes.Search(sd))

	mux.HandleFunc("POST /shuffle", routes.ShuffleStart(sd))
	mux.HandleFunc("GET /shuffle/{id}", routes.ShuffleGet(sd))
	mux.HandleFunc("POST /shuffle/{id}/commit", routes.ShuffleCommit(sd))
	mux.HandleFunc("DELETE /shuffle/{id}", routes.ShuffleCancel(sd))

	mux.HandleFunc("GET /settings/language", routes.LanguageGet(sd))
	mux.HandleFunc("PUT /settings/language", routes.LanguageSet(sd))

	return withCorrelationID(withLogging(withCORS(s.corsOrigins)(withSecurityHeaders(mux))))
}
