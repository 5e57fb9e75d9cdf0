package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"cineshuffle-server/internal/config"
	"cineshuffle-server/internal/deps"
	"cineshuffle-server/internal/jobs"
	"cineshuffle-server/internal/server"
	"cineshuffle-server/internal/shuffle"
	"cineshuffle-server/internal/store"
	"cineshuffle-server/internal/suggest"
	pkgcache "cineshuffle-server/pkg/cache"
	pkggemini "cineshuffle-server/pkg/gemini"
	pkgtmdb "cineshuffle-server/pkg/tmdb"
)

func main() {
	_ = godotenv.Load() // best-effort
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var c pkgcache.Cache
	if cfg.ValkeyAddr != "" {
		vc, err := pkgcache.NewValkey(cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err != nil {
			log.Error().Err(err).Msg("valkey connect failed, using in-memory cache")
			c = pkgcache.NewInMemory()
		} else {
			c = vc
		}
	} else {
		c = pkgcache.NewInMemory()
	}

	st := store.New()
	st.SetLanguage(cfg.DefaultLanguage)
	if cfg.SeedDemo {
		jobs.SeedIfEmpty(st)
	}

	var gem *pkggemini.Client
	if cfg.GeminiAPIKey != "" {
		var err error
		gem, err = pkggemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error().Err(err).Msg("gemini client init failed; ai suggestions disabled")
			gem = nil
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; ai suggestions disabled")
	}

	var hydrator suggest.Hydrator
	tmdbClient := pkgtmdb.New(cfg.TMDBAPIKey)
	if tmdbClient.Configured() {
		hydrator = tmdbClient
	} else {
		log.Warn().Msg("TMDB_API_KEY not set; metadata hydration disabled")
	}

	var suggester suggest.Suggester
	var fallback deps.Searcher
	if gem != nil {
		suggester = gem
		fallback = gem
	}
	pipeline := suggest.NewPipeline(suggester, hydrator, c)
	engine := shuffle.NewEngine(cfg.ShuffleSpins, cfg.ShuffleTick)

	jobs.StartSessionReaper(ctx, engine, cfg.SessionTTL)

	api := server.New(deps.ServerDeps{
		Store:    st,
		Pipeline: pipeline,
		Shuffler: engine,
		TMDB:     tmdbClient,
		Fallback: fallback,
		Cache:    c,
	}, cfg.CORSAllowedOrigins)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := server.StartHTTP(ctx, addr, api.Router()); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	_, _ = fmt.Fprintln(os.Stderr, "shutting down...")
	time.Sleep(200 * time.Millisecond)
}
