package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"cineshuffle-server/internal/shuffle"
)

// StartSessionReaper periodically sweeps settled shuffle sessions whose
// winner was never committed or cancelled, so abandoned sessions do not
// accumulate. Sweeping never touches the store.
func StartSessionReaper(ctx context.Context, e *shuffle.Engine, ttl time.Duration) {
	if ttl <= 0 {
		log.Warn().Msg("session ttl not configured; skipping session reaper")
		return
	}
	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := e.Sweep(ttl); n > 0 {
					log.Info().Int("count", n).Msg("reaped stale shuffle sessions")
				}
			}
		}
	}()
}
