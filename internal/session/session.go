// Package session holds the process-wide authentication state.
package session

import (
	"context"
	"sync"

	"github.com/emaquis/maquis/internal/credstore"
	"github.com/emaquis/maquis/pkg/domain"
)

// State is an immutable snapshot of the session.
// Authenticated is true only while Token is non-empty.
type State struct {
	Authenticated bool
	User          *domain.User
	Token         string
}

// PersistFunc observes the outcome of a background persistence step.
// op is "set" or "remove". err is nil on success.
type PersistFunc func(op string, err error)

// Session is the single source of truth for "is the app authenticated".
// It is constructed once in main and passed to everything that needs it.
// Mutations happen only through Login, Logout and Hydrate; consumers
// subscribe for change notifications instead of polling.
//
// Token persistence is best-effort: the in-memory transition never waits
// for the store, and a store failure never rolls it back. A crash between
// the two leaves them divergent until the next Hydrate.
type Session struct {
	store credstore.Store

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int

	onPersist PersistFunc
}

// New creates an empty, logged-out session backed by store.
func New(store credstore.Store) *Session {
	return &Session{
		store: store,
		subs:  make(map[int]func(State)),
	}
}

// OnPersist installs an observer for background persistence outcomes.
// Must be called before the first Login/Logout.
func (s *Session) OnPersist(fn PersistFunc) {
	s.onPersist = fn
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Subscribe registers fn to be called with a snapshot after every
// transition. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login overwrites the session with the given user and token, then
// persists the token in the background. It always succeeds from the
// caller's perspective. An empty token cannot authenticate and is
// ignored, keeping the invariant that authenticated states carry one.
func (s *Session) Login(user *domain.User, token string) {
	if token == "" {
		return
	}
	s.transition(State{Authenticated: true, User: user, Token: token})
	go s.persist("set", token)
}

// Logout unconditionally clears the session and removes the persisted
// token in the background. Idempotent.
func (s *Session) Logout() {
	s.transition(State{})
	go s.persist("remove", "")
}

// Hydrate restores the session from the credential store. Called once at
// startup, before the UI commits to a branch. A stored token marks the
// session authenticated without a user; the profile is fetched lazily by
// whichever view needs it. Store errors leave the defaults standing.
func (s *Session) Hydrate(ctx context.Context) {
	token, err := s.store.Get(ctx, credstore.TokenKey)
	if err != nil || token == "" {
		return
	}
	s.transition(State{Authenticated: true, Token: token})
}

func (s *Session) transition(next State) {
	s.mu.Lock()
	s.state = next
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(next)
	}
}

func (s *Session) persist(op, token string) {
	var err error
	switch op {
	case "set":
		err = s.store.Set(context.Background(), credstore.TokenKey, token)
	case "remove":
		err = s.store.Remove(context.Background(), credstore.TokenKey)
	}
	if s.onPersist != nil {
		s.onPersist(op, err)
	}
}
