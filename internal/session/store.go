// Package session tracks the client's authentication state.
//
// The Store mirrors what an external auth stream reports: it starts out
// unresolved, transitions to loading while the first answer is in flight, and
// then settles into authenticated or unauthenticated. Resolution can arrive
// twice (once from the change stream's initial event, once from the one-shot
// session fetch); both apply the same last-write-wins set, so the double
// arrival is harmless.
package session

import (
	"context"
	"sync"

	"nerves/internal/domain/entity"
)

// Status is the auth resolution state of the store.
type Status int

const (
	// StatusUninitialized means Attach has not been called yet.
	StatusUninitialized Status = iota
	// StatusLoading means resolution is in flight.
	StatusLoading
	// StatusAuthenticated means a session is present.
	StatusAuthenticated
	// StatusUnauthenticated means resolution finished with no session.
	StatusUnauthenticated
)

// String implements fmt.Stringer for logging.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AuthEvent labels a change notification from the auth stream.
type AuthEvent string

const (
	// EventInitialSession is emitted once when the stream delivers its
	// first answer, whether or not a session exists.
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	// EventSignedIn is emitted when a sign-in completes.
	EventSignedIn AuthEvent = "SIGNED_IN"
	// EventSignedOut is emitted when the session ends.
	EventSignedOut AuthEvent = "SIGNED_OUT"
	// EventTokenRefreshed is emitted when the access token rotates.
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// Session is the client-side view of an authenticated session.
type Session struct {
	Identity    *entity.Identity
	AccessToken string
}

// Stream is the auth state source the store attaches to. Implementations
// wrap whatever transport talks to the managed auth service.
type Stream interface {
	// OnAuthStateChange registers fn for every auth event. The returned
	// function unregisters it; calling it more than once is a no-op.
	OnAuthStateChange(fn func(event AuthEvent, session *Session)) (unsubscribe func())

	// CurrentSession fetches the session once. A nil session with a nil
	// error means "resolved: not signed in".
	CurrentSession(ctx context.Context) (*Session, error)
}

// Snapshot is an immutable view of the store at one point in time.
type Snapshot struct {
	Status  Status
	Session *Session
}

// Identity returns the signed-in identity, or nil.
func (s Snapshot) Identity() *entity.Identity {
	if s.Session == nil {
		return nil
	}
	return s.Session.Identity
}

// Store holds the resolved auth state and fans changes out to subscribers.
// All methods are safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	status      Status
	session     *Session
	unsubscribe func()
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewStore returns a Store in the uninitialized state.
func NewStore() *Store {
	return &Store{
		status:      StatusUninitialized,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Attach moves the store to loading and starts both resolution paths: the
// change-stream subscription and a one-shot session fetch. Each path applies
// its answer with the same set operation, so whichever lands last wins and a
// repeat of the same answer changes nothing. Attach on an already attached
// store detaches the previous stream first.
func (s *Store) Attach(ctx context.Context, stream Stream) {
	s.mu.Lock()
	if s.unsubscribe != nil {
		prev := s.unsubscribe
		s.unsubscribe = nil
		s.mu.Unlock()
		prev()
		s.mu.Lock()
	}
	s.status = StatusLoading
	s.session = nil
	s.mu.Unlock()
	s.notify()

	unsub := stream.OnAuthStateChange(func(_ AuthEvent, sess *Session) {
		s.set(sess)
	})

	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()

	go func() {
		sess, err := stream.CurrentSession(ctx)
		if err != nil {
			// A failed fetch resolves to signed out rather than leaving
			// the store stuck in loading.
			s.set(nil)
			return
		}
		s.set(sess)
	}()
}

// set resolves the store to the given session. It is the single write path
// for both the stream callback and the one-shot fetch.
func (s *Store) set(sess *Session) {
	s.mu.Lock()
	if s.status == StatusUninitialized {
		// Detached while a resolution was still in flight; drop it.
		s.mu.Unlock()
		return
	}
	changed := false
	if sess != nil {
		if s.status != StatusAuthenticated || s.session != sess {
			s.status = StatusAuthenticated
			s.session = sess
			changed = true
		}
	} else {
		if s.status != StatusUnauthenticated || s.session != nil {
			s.status = StatusUnauthenticated
			s.session = nil
			changed = true
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{Status: s.status, Session: s.session}
}

// Subscribe registers fn to receive every state change. fn is called
// immediately with the current snapshot, then on each change until the
// returned cancel function runs. Callbacks are invoked outside the store's
// lock; they may call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	snap := Snapshot{Status: s.status, Session: s.session}
	s.mu.Unlock()

	fn(snap)

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Detach unsubscribes from the stream and returns the store to the
// uninitialized state. Late resolutions from the detached stream are ignored.
// Detach on a store that was never attached is a no-op.
func (s *Store) Detach() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.status = StatusUninitialized
	s.session = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	snap := Snapshot{Status: s.status, Session: s.session}
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
