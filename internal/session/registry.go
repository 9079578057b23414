// Package session tracks live games for the HTTP server. Each game is
// guarded by its own mutex, so moves on one game are applied one at a time.
package session

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

var Log = logrus.New()

var ErrNotFound = errors.New("game session not found")

type Session struct {
	ID        string
	StartedAt time.Time

	mu      sync.Mutex
	game    *mines.Game
	endedAt time.Time
	touched time.Time
}

// Update runs fn and then view under one lock, so view sees exactly the
// state fn left behind. view also gets the time the game ended, zero while it
// is running. Either func may be nil.
func (s *Session) Update(fn func(g *mines.Game) error, view func(g *mines.Game, endedAt time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if fn != nil {
		err = fn(s.game)
	}
	now := time.Now().UTC()
	s.touched = now
	if s.game.Over() && s.endedAt.IsZero() {
		s.endedAt = now
	}
	if view != nil {
		view(s.game, s.endedAt)
	}
	return err
}

// Do runs fn with exclusive access to the game.
func (s *Session) Do(fn func(g *mines.Game) error) error {
	return s.Update(fn, nil)
}

// EndedAt is zero while the game is in progress.
func (s *Session) EndedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewRegistry(rnd *rand.Rand) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		rnd:      rnd,
	}
}

// Create starts a fresh game of size n.
func (r *Registry) Create(n int) (*Session, error) {
	r.rndMu.Lock()
	g, err := mines.NewGame(n, r.rnd)
	r.rndMu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.Add(g), nil
}

// Add registers an existing game, e.g. one restored from a save.
func (r *Registry) Add(g *mines.Game) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
		game:      g,
		touched:   now,
	}
	if g.Over() {
		s.endedAt = now
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	Log.WithFields(logrus.Fields{
		"id":   s.ID,
		"size": g.Size(),
	}).Debug("session created")
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune drops sessions that have not been used since before cutoff and
// returns how many were removed.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.lastTouched().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		Log.WithField("count", n).Info("pruned idle sessions")
	}
	return n
}
