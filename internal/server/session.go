package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-intake/internal/metrics"
	"github.com/jonathan/resume-intake/internal/widget"
)

type contextKey string

const contextKeySession contextKey = "session"

// Session is one visitor's widget and the view it drives.
type Session struct {
	ID      string
	Widget  *widget.Widget
	View    *View
	Created time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// idle reports whether the session has had no request and no open event
// stream for ttl.
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	if s.View.Subscribers() > 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

// WidgetFactory builds the widget for a new session's view.
type WidgetFactory func(view *View) (*widget.Widget, error)

// SessionStore keeps sessions in memory and expires idle ones.
type SessionStore struct {
	ttl     time.Duration
	factory WidgetFactory
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionStore creates a store. m may be nil.
func NewSessionStore(ttl time.Duration, factory WidgetFactory, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		factory:  factory,
		metrics:  m,
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
}

// Create starts a session with a fresh widget.
func (st *SessionStore) Create(view *View) (*Session, error) {
	w, err := st.factory(view)
	if err != nil {
		return nil, err
	}

	now := st.now()
	sess := &Session{
		ID:       uuid.NewString(),
		Widget:   w,
		View:     view,
		Created:  now,
		lastSeen: now,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	if st.metrics != nil {
		st.metrics.SessionOpened()
	}
	return sess, nil
}

// Get returns the session and marks it as seen.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	sess.touch(st.now())
	return sess, nil
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes and removes idle sessions, returning how many it removed.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	var expired []*Session
	for id, sess := range st.sessions {
		if sess.idle(now, st.ttl) {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.Widget.Close()
		if st.metrics != nil {
			st.metrics.SessionClosed(true)
		}
	}
	return len(expired)
}

// StartCleanup sweeps every interval until Close.
func (st *SessionStore) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.Sweep()
			case <-st.stop:
				return
			}
		}
	}()
}

// Close stops the cleanup loop and closes every session's widget.
func (st *SessionStore) Close() {
	st.stopOnce.Do(func() {
		close(st.stop)
	})

	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, sess := range sessions {
		sess.Widget.Close()
		if st.metrics != nil {
			st.metrics.SessionClosed(false)
		}
	}
}

func withSessionContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKeySession, sess)
}

// SessionFromContext returns the session resolved by the session middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKeySession).(*Session)
	return sess
}
