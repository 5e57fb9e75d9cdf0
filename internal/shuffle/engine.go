// Package shuffle implements the randomized picker: a cancellable session
// state machine (shuffling -> settled) that animates uniform draws over a
// movie pool at a fixed cadence, then fixes one winner with a final
// independent draw. The engine only selects; committing the winner to the
// store is the caller's move.
package shuffle

import (
	"context"
	"errors"
	randv2 "math/rand/v2"
	"sync"
	"time"

	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"
)

// Session states.
const (
	StateShuffling = "shuffling"
	StateSettled   = "settled"
)

// Presentation defaults: how many animation frames and how fast.
const (
	DefaultSpins = 25
	DefaultTick  = 100 * time.Millisecond
)

var (
	ErrEmptyPool         = errors.New("shuffle pool is empty")
	ErrShuffleInProgress = errors.New("a shuffle session is already running")
	ErrSessionNotFound   = errors.New("shuffle session not found")
	ErrNotSettled        = errors.New("shuffle session has not settled yet")
)

type Engine struct {
	mu       sync.Mutex
	sessions map[string]*Session
	activeID string // session currently shuffling, if any

	spins int
	tick  time.Duration
	intn  func(n int) int
	now   func() time.Time
}

func NewEngine(spins int, tick time.Duration) *Engine {
	if spins <= 0 {
		spins = DefaultSpins
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Engine{
		sessions: make(map[string]*Session),
		spins:    spins,
		tick:     tick,
		intn:     randv2.IntN,
		now:      time.Now,
	}
}

// NewEngineWithRand builds an engine with an injected index source, for
// deterministic tests.
func NewEngineWithRand(spins int, tick time.Duration, intn func(n int) int) *Engine {
	e := NewEngine(spins, tick)
	e.intn = intn
	return e
}

type Session struct {
	id   string
	pool []model.Movie

	mu        sync.Mutex
	state     string
	current   model.Movie
	winner    model.Movie
	settledAt time.Time

	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
}

// Snapshot is the observable view of a session.
type Snapshot struct {
	ID      string       `json:"id"`
	State   string       `json:"state"`
	Current model.Movie  `json:"current"`
	Winner  *model.Movie `json:"winner,omitempty"`
}

// Start opens a new shuffle session over a non-empty pool. An empty pool
// is a caller logic error and is rejected without opening a session. Only
// one session may be shuffling at a time; starting a new one discards any
// prior settled-but-uncommitted session.
func (e *Engine) Start(ctx context.Context, pool []model.Movie) (*Session, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	e.mu.Lock()
	if e.activeID != "" {
		e.mu.Unlock()
		return nil, ErrShuffleInProgress
	}
	// Drop stale settled sessions: their winners are simply forgotten.
	for sid, old := range e.sessions {
		delete(e.sessions, sid)
		old.cancel()
		old.close()
	}

	p := make([]model.Movie, len(pool))
	copy(p, pool)

	runCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:      id.MustGenerate(id.PrefixSession),
		pool:    p,
		state:   StateShuffling,
		current: p[e.intn(len(p))],
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	e.sessions[s.id] = s
	e.activeID = s.id
	e.mu.Unlock()

	go e.run(runCtx, s)
	return s, nil
}

// run drives the animation ticks and the final draw. The winner is an
// independent sample: it is not required to match the last animated frame.
func (e *Engine) run(ctx context.Context, s *Session) {
	t := time.NewTicker(e.tick)
	defer t.Stop()

	for i := 0; i < e.spins; i++ {
		select {
		case <-ctx.Done():
			e.clearActive(s.id)
			s.close()
			return
		case <-t.C:
			s.mu.Lock()
			s.current = s.pool[e.intn(len(s.pool))]
			s.mu.Unlock()
		}
	}

	winner := s.pool[e.intn(len(s.pool))]

	s.mu.Lock()
	if s.state == StateShuffling {
		s.state = StateSettled
		s.winner = winner
		s.current = winner
		s.settledAt = e.now()
	}
	s.mu.Unlock()

	e.clearActive(s.id)
	s.close()
}

func (e *Engine) clearActive(sid string) {
	e.mu.Lock()
	if e.activeID == sid {
		e.activeID = ""
	}
	e.mu.Unlock()
}

// Get returns a live session by id.
func (e *Engine) Get(sid string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Cancel discards a session without committing. Legal from any state; the
// store is never touched, so cancellation is always a pure no-op on
// persisted state. Unknown ids are absorbed.
func (e *Engine) Cancel(sid string) {
	e.mu.Lock()
	s, ok := e.sessions[sid]
	if ok {
		delete(e.sessions, sid)
		if e.activeID == sid {
			e.activeID = ""
		}
	}
	e.mu.Unlock()
	if ok {
		s.cancel()
		s.close()
	}
}

// Commit fixes the session's winner as chosen and closes the session.
// The caller performs the actual watch transition against the store.
func (e *Engine) Commit(sid string) (model.Movie, error) {
	e.mu.Lock()
	s, ok := e.sessions[sid]
	e.mu.Unlock()
	if !ok {
		return model.Movie{}, ErrSessionNotFound
	}
	w, err := s.Winner()
	if err != nil {
		return model.Movie{}, err
	}
	e.Cancel(sid)
	return w, nil
}

// Sweep drops settled sessions older than maxAge and returns how many
// were removed. Shuffling sessions are never reaped; they settle within
// spins*tick on their own.
func (e *Engine) Sweep(maxAge time.Duration) int {
	cutoff := e.now().Add(-maxAge)
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	for sid, s := range e.sessions {
		s.mu.Lock()
		stale := s.state == StateSettled && s.settledAt.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(e.sessions, sid)
			if e.activeID == sid {
				e.activeID = ""
			}
			removed++
		}
	}
	return removed
}

func (s *Session) ID() string { return s.id }

// Snapshot returns the current observable state: the highlighted frame
// while shuffling, plus the winner once settled.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{ID: s.id, State: s.state, Current: s.current}
	if s.state == StateSettled {
		w := s.winner
		snap.Winner = &w
	}
	return snap
}

// Current returns the movie highlighted by the latest animation frame.
func (s *Session) Current() model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Winner returns the settled pick, or ErrNotSettled while the animation
// is still running.
func (s *Session) Winner() (model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSettled {
		return model.Movie{}, ErrNotSettled
	}
	return s.winner, nil
}

// Done is closed once the session settles or is cancelled.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) close() {
	s.doneOnce.Do(func() { close(s.done) })
}
