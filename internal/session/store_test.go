package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"nerves/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream is a controllable Stream for tests. CurrentSession blocks until
// release is closed so tests can order the two resolution paths.
type fakeStream struct {
	mu       sync.Mutex
	handlers []func(AuthEvent, *Session)

	current    *Session
	currentErr error
	release    chan struct{}

	unsubCalls int
}

func newFakeStream(current *Session) *fakeStream {
	return &fakeStream{current: current, release: make(chan struct{})}
}

func (f *fakeStream) OnAuthStateChange(fn func(AuthEvent, *Session)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fn)

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubCalls++
	}
}

func (f *fakeStream) CurrentSession(_ context.Context) (*Session, error) {
	<-f.release
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current, f.currentErr
}

func (f *fakeStream) emit(event AuthEvent, sess *Session) {
	f.mu.Lock()
	handlers := make([]func(AuthEvent, *Session), len(f.handlers))
	copy(handlers, f.handlers)
	f.mu.Unlock()

	for _, fn := range handlers {
		fn(event, sess)
	}
}

func testSession() *Session {
	return &Session{
		Identity:    &entity.Identity{ID: uuid.New(), Email: "analyst@void.example"},
		AccessToken: "token-abc",
	}
}

func waitForStatus(t *testing.T, store *Store, want Status) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		snap := store.Snapshot()
		if snap.Status == want {
			return snap
		}
		select {
		case <-deadline:
			t.Fatalf("store never reached %v, stuck at %v", want, snap.Status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStore_StartsUninitialized(t *testing.T) {
	store := NewStore()

	snap := store.Snapshot()
	assert.Equal(t, StatusUninitialized, snap.Status)
	assert.Nil(t, snap.Session)
}

func TestStore_AttachEntersLoading(t *testing.T) {
	store := NewStore()
	stream := newFakeStream(nil)

	store.Attach(context.Background(), stream)

	snap := store.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
}

func TestStore_ResolvesAuthenticatedFromFetch(t *testing.T) {
	store := NewStore()
	sess := testSession()
	stream := newFakeStream(sess)

	store.Attach(context.Background(), stream)
	close(stream.release)

	snap := waitForStatus(t, store, StatusAuthenticated)
	assert.Equal(t, sess, snap.Session)
	assert.Equal(t, sess.Identity, snap.Identity())
}

func TestStore_ResolvesUnauthenticatedFromEmptyFetch(t *testing.T) {
	store := NewStore()
	stream := newFakeStream(nil)

	store.Attach(context.Background(), stream)
	close(stream.release)

	snap := waitForStatus(t, store, StatusUnauthenticated)
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Identity())
}

func TestStore_FetchErrorResolvesUnauthenticated(t *testing.T) {
	store := NewStore()
	stream := newFakeStream(nil)
	stream.currentErr = assert.AnError

	store.Attach(context.Background(), stream)
	close(stream.release)

	waitForStatus(t, store, StatusUnauthenticated)
}

func TestStore_DoubleResolutionIsIdempotent(t *testing.T) {
	store := NewStore()
	sess := testSession()
	stream := newFakeStream(sess)

	var mu sync.Mutex
	var transitions []Status
	cancel := store.Subscribe(func(snap Snapshot) {
		mu.Lock()
		transitions = append(transitions, snap.Status)
		mu.Unlock()
	})
	defer cancel()

	store.Attach(context.Background(), stream)

	// The stream's initial event and the one-shot fetch both deliver the
	// same answer.
	stream.emit(EventInitialSession, sess)
	close(stream.release)

	snap := waitForStatus(t, store, StatusAuthenticated)
	assert.Equal(t, sess, snap.Session)

	// Give a late fetch resolution time to land, then confirm no extra
	// authenticated transition was observed.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	var authed int
	for _, st := range transitions {
		if st == StatusAuthenticated {
			authed++
		}
	}
	assert.Equal(t, 1, authed, "same session applied twice must notify once")
}

func TestStore_SignedOutEvent(t *testing.T) {
	store := NewStore()
	sess := testSession()
	stream := newFakeStream(sess)

	store.Attach(context.Background(), stream)
	close(stream.release)
	waitForStatus(t, store, StatusAuthenticated)

	stream.emit(EventSignedOut, nil)

	snap := waitForStatus(t, store, StatusUnauthenticated)
	assert.Nil(t, snap.Session)
}

func TestStore_SubscribeDeliversCurrentSnapshotImmediately(t *testing.T) {
	store := NewStore()
	stream := newFakeStream(nil)
	store.Attach(context.Background(), stream)
	close(stream.release)
	waitForStatus(t, store, StatusUnauthenticated)

	var got []Snapshot
	cancel := store.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})
	defer cancel()

	require.Len(t, got, 1)
	assert.Equal(t, StatusUnauthenticated, got[0].Status)
}

func TestStore_CancelledSubscriberStopsReceiving(t *testing.T) {
	store := NewStore()
	stream := newFakeStream(nil)
	store.Attach(context.Background(), stream)
	close(stream.release)
	waitForStatus(t, store, StatusUnauthenticated)

	var mu sync.Mutex
	var calls int
	cancel := store.Subscribe(func(Snapshot) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	cancel()
	cancel() // repeat cancel is a no-op

	stream.emit(EventSignedIn, testSession())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "only the immediate snapshot delivery")
}

func TestStore_DetachUnsubscribesAndDropsLateResolutions(t *testing.T) {
	store := NewStore()
	sess := testSession()
	stream := newFakeStream(sess)

	store.Attach(context.Background(), stream)
	store.Detach()

	stream.mu.Lock()
	assert.Equal(t, 1, stream.unsubCalls)
	stream.mu.Unlock()

	// The fetch resolves after detach; the store must stay uninitialized.
	close(stream.release)
	time.Sleep(50 * time.Millisecond)

	snap := store.Snapshot()
	assert.Equal(t, StatusUninitialized, snap.Status)
	assert.Nil(t, snap.Session)
}

func TestStore_DetachWithoutAttachIsNoOp(t *testing.T) {
	store := NewStore()
	store.Detach()

	assert.Equal(t, StatusUninitialized, store.Snapshot().Status)
}

func TestStore_ReattachReplacesStream(t *testing.T) {
	store := NewStore()
	first := newFakeStream(nil)
	second := newFakeStream(testSession())

	store.Attach(context.Background(), first)
	store.Attach(context.Background(), second)

	first.mu.Lock()
	assert.Equal(t, 1, first.unsubCalls, "previous stream must be unsubscribed")
	first.mu.Unlock()

	close(second.release)
	waitForStatus(t, store, StatusAuthenticated)
}
