package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emaquis/maquis/internal/credstore"
	"github.com/emaquis/maquis/pkg/domain"
)

// newTestSession returns a session whose background persistence can be
// awaited through the returned channel.
func newTestSession(store credstore.Store) (*Session, chan string) {
	s := New(store)
	done := make(chan string, 8)
	s.OnPersist(func(op string, err error) {
		done <- op
	})
	return s, done
}

func waitPersist(t *testing.T, done chan string, op string) {
	t.Helper()
	select {
	case got := <-done:
		if got != op {
			t.Fatalf("persist op = %q, want %q", got, op)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %q persistence", op)
	}
}

func TestLoginSetsStateAndPersistsToken(t *testing.T) {
	store := credstore.NewMemStore()
	s, done := newTestSession(store)

	s.Login(&domain.User{ID: "u1"}, "tok-1")
	waitPersist(t, done, "set")

	st := s.Snapshot()
	if !st.Authenticated || st.Token != "tok-1" || st.User == nil || st.User.ID != "u1" {
		t.Errorf("state = %+v, want authenticated u1/tok-1", st)
	}
	got, err := store.Get(context.Background(), credstore.TokenKey)
	if err != nil || got != "tok-1" {
		t.Errorf("stored token = (%q, %v), want (tok-1, nil)", got, err)
	}
}

func TestLoginEmptyTokenIsIgnored(t *testing.T) {
	store := credstore.NewMemStore()
	s, done := newTestSession(store)

	s.Login(&domain.User{ID: "u1"}, "")
	st := s.Snapshot()
	if st.Authenticated || st.User != nil || st.Token != "" {
		t.Errorf("state after empty-token login = %+v, want zero state", st)
	}

	// A logged-in session is not disturbed by a bad login attempt.
	s.Login(&domain.User{ID: "u1"}, "tok-1")
	waitPersist(t, done, "set")
	s.Login(&domain.User{ID: "u2"}, "")
	st = s.Snapshot()
	if !st.Authenticated || st.Token != "tok-1" || st.User == nil || st.User.ID != "u1" {
		t.Errorf("state = %+v, want untouched u1/tok-1", st)
	}
	select {
	case op := <-done:
		t.Fatalf("unexpected persistence %q for ignored login", op)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLogoutClearsStateAndStore(t *testing.T) {
	store := credstore.NewMemStore()
	s, done := newTestSession(store)

	s.Login(&domain.User{ID: "u1"}, "tok-1")
	waitPersist(t, done, "set")
	s.Logout()
	waitPersist(t, done, "remove")

	st := s.Snapshot()
	if st.Authenticated || st.User != nil || st.Token != "" {
		t.Errorf("state after logout = %+v, want zero state", st)
	}
	if _, err := store.Get(context.Background(), credstore.TokenKey); !errors.Is(err, credstore.ErrNotFound) {
		t.Errorf("stored token after logout: %v, want ErrNotFound", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	s, done := newTestSession(credstore.NewMemStore())

	s.Logout()
	waitPersist(t, done, "remove")
	first := s.Snapshot()
	s.Logout()
	waitPersist(t, done, "remove")

	if got := s.Snapshot(); got != first {
		t.Errorf("second logout changed state: %+v vs %+v", got, first)
	}
}

func TestHydrateWithStoredToken(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemStore()
	if err := store.Set(ctx, credstore.TokenKey, "tok-old"); err != nil {
		t.Fatal(err)
	}
	s := New(store)
	s.Hydrate(ctx)

	st := s.Snapshot()
	if !st.Authenticated || st.Token != "tok-old" {
		t.Errorf("state = %+v, want authenticated with tok-old", st)
	}
	// Hydrate restores the token only; the profile is fetched lazily.
	if st.User != nil {
		t.Errorf("hydrate set user = %+v, want nil", st.User)
	}
}

func TestHydrateEmptyStoreLeavesDefaults(t *testing.T) {
	s := New(credstore.NewMemStore())
	s.Hydrate(context.Background())

	if st := s.Snapshot(); st.Authenticated || st.Token != "" || st.User != nil {
		t.Errorf("state = %+v, want zero state", st)
	}
}

func TestLoginOverridesHydratedToken(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemStore()
	if err := store.Set(ctx, credstore.TokenKey, "T1"); err != nil {
		t.Fatal(err)
	}
	s, done := newTestSession(store)
	s.Hydrate(ctx)

	u := &domain.User{ID: "u1"}
	s.Login(u, "T2")
	waitPersist(t, done, "set")

	st := s.Snapshot()
	if !st.Authenticated || st.Token != "T2" || st.User != u {
		t.Errorf("state = %+v, want login to win with T2", st)
	}
	if got, _ := store.Get(ctx, credstore.TokenKey); got != "T2" {
		t.Errorf("stored token = %q, want T2", got)
	}
}

func TestAuthenticatedImpliesToken(t *testing.T) {
	// Drive the session through its whole lifecycle and check the
	// invariant at every step.
	ctx := context.Background()
	store := credstore.NewMemStore()
	s, done := newTestSession(store)

	check := func(step string) {
		t.Helper()
		if st := s.Snapshot(); st.Authenticated && st.Token == "" {
			t.Errorf("%s: authenticated with empty token", step)
		}
	}

	check("initial")
	s.Hydrate(ctx)
	check("hydrate empty")
	s.Login(&domain.User{ID: "u1"}, "tok")
	waitPersist(t, done, "set")
	check("login")
	s.Logout()
	waitPersist(t, done, "remove")
	check("logout")
	s.Hydrate(ctx)
	check("hydrate after logout")
}

func TestSubscribersAreNotified(t *testing.T) {
	s, done := newTestSession(credstore.NewMemStore())

	var got []State
	unsub := s.Subscribe(func(st State) {
		got = append(got, st)
	})

	s.Login(&domain.User{ID: "u1"}, "tok")
	waitPersist(t, done, "set")
	s.Logout()
	waitPersist(t, done, "remove")

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if !got[0].Authenticated || got[0].Token != "tok" {
		t.Errorf("first notification = %+v, want authenticated", got[0])
	}
	if got[1].Authenticated {
		t.Errorf("second notification = %+v, want logged out", got[1])
	}

	unsub()
	s.Login(&domain.User{ID: "u2"}, "tok-2")
	waitPersist(t, done, "set")
	if len(got) != 2 {
		t.Errorf("unsubscribed func was still called (%d notifications)", len(got))
	}
}

// failingStore always errors, to prove persistence failure never gates
// the in-memory transition.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}
func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk on fire")
}
func (failingStore) Remove(context.Context, string) error {
	return errors.New("disk on fire")
}

func TestPersistenceFailureDoesNotGateTransition(t *testing.T) {
	s := New(failingStore{})
	done := make(chan error, 1)
	s.OnPersist(func(op string, err error) { done <- err })

	s.Login(&domain.User{ID: "u1"}, "tok")

	if st := s.Snapshot(); !st.Authenticated || st.Token != "tok" {
		t.Errorf("state = %+v, want authenticated despite store failure", st)
	}
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected persistence error to be reported")
		}
	case <-time.After(time.Second):
		t.Fatal("persistence outcome never reported")
	}
}

func TestHydrateStoreErrorLeavesDefaults(t *testing.T) {
	s := New(failingStore{})
	s.Hydrate(context.Background())
	if st := s.Snapshot(); st.Authenticated {
		t.Errorf("state = %+v, want logged out after store error", st)
	}
}
