package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from env.
type Config struct {
	Port               string
	Env                string
	GeminiAPIKey       string
	GeminiModel        string
	TMDBAPIKey         string
	DefaultLanguage    string
	ValkeyAddr         string
	ValkeyPassword     string
	CORSAllowedOrigins []string

	ShuffleSpins int
	ShuffleTick  time.Duration
	SessionTTL   time.Duration
	SeedDemo     bool
}

func FromEnv() Config {
	c := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		TMDBAPIKey:      os.Getenv("TMDB_API_KEY"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		ValkeyAddr:      os.Getenv("VALKEY_ADDR"),
		ValkeyPassword:  os.Getenv("VALKEY_PASSWORD"),
		ShuffleSpins:    getEnvInt("SHUFFLE_SPINS", 25),
		ShuffleTick:     time.Duration(getEnvInt("SHUFFLE_TICK_MS", 100)) * time.Millisecond,
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MIN", 30)) * time.Minute,
		SeedDemo:        os.Getenv("SEED_DEMO") == "1",
	}
	if s := os.Getenv("CORS_ALLOWED_ORIGINS"); s != "" {
		for _, p := range strings.Split(s, ",") {
			if v := strings.TrimSpace(p); v != "" {
				c.CORSAllowedOrigins = append(c.CORSAllowedOrigins, v)
			}
		}
	}
	return c
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
