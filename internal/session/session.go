// Package session tracks anonymous and signed-in shoppers by cookie.
//
// Sessions are created lazily: a request without a cookie carries no session
// until a handler calls Ensure or SignIn.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie.
const CookieName = "vegana_session"

// DefaultIdleTimeout is how long an unused session survives.
const DefaultIdleTimeout = 24 * time.Hour

const sweepInterval = time.Minute

type contextKey struct{}

// Session is one browser session. The cart is keyed by ID.
type Session struct {
	ID string

	mu         sync.RWMutex
	customerID string
	lastSeen   time.Time
}

// NewSession returns a detached session, signed in as customerID unless it is
// empty.
func NewSession(id, customerID string) *Session {
	return &Session{ID: id, customerID: customerID}
}

// CustomerID returns the signed-in customer, or "" for anonymous sessions.
func (s *Session) CustomerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerID
}

func (s *Session) setCustomer(id string) {
	s.mu.Lock()
	s.customerID = id
	s.mu.Unlock()
}

// Store keeps sessions in memory. Restarting the server signs everyone out.
type Store struct {
	// IdleTimeout drops sessions unused for longer. Zero keeps them forever.
	IdleTimeout time.Duration

	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time
	newID     func() string
	now       func() time.Time
}

// NewStore creates an empty store with DefaultIdleTimeout.
func NewStore() *Store {
	return &Store{
		IdleTimeout: DefaultIdleTimeout,
		sessions:    make(map[string]*Session),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup returns the live session for id and marks it used, or nil.
func (s *Store) lookup(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil
	}
	sess.lastSeen = now
	return sess
}

func (s *Store) create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)

	sess := &Session{ID: s.newID(), lastSeen: now}
	s.sessions[sess.ID] = sess
	return sess
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.IdleTimeout > 0 && now.Sub(sess.lastSeen) > s.IdleTimeout
}

// sweep drops expired sessions, at most once per sweepInterval. Callers hold mu.
func (s *Store) sweep(now time.Time) {
	if s.IdleTimeout <= 0 || now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

// binding ties a request to its session and lets handlers issue one late.
type binding struct {
	store *Store
	w     http.ResponseWriter
	sess  *Session
}

func (b *binding) issue(sess *Session) {
	b.sess = sess
	if b.w == nil {
		return
	}
	http.SetCookie(b.w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (b *binding) fresh() *Session {
	if b.store == nil {
		return &Session{ID: uuid.NewString()}
	}
	return b.store.create()
}

// Middleware attaches the session named by the request cookie, if it is
// still live. Unknown or expired cookies are treated as anonymous.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := &binding{store: s, w: w}
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			b.sess = s.lookup(c.Value)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, b)))
	})
}

// WithSession returns ctx carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, &binding{sess: sess})
}

func bindingFrom(ctx context.Context) *binding {
	b, _ := ctx.Value(contextKey{}).(*binding)
	return b
}

// FromContext returns the request session, or nil when there is none yet.
func FromContext(ctx context.Context) *Session {
	if b := bindingFrom(ctx); b != nil {
		return b.sess
	}
	return nil
}

// Ensure returns the session of ctx, creating it and setting the cookie when
// the request has none. It must run before the response is written. Outside
// the middleware it returns nil.
func Ensure(ctx context.Context) *Session {
	b := bindingFrom(ctx)
	if b == nil {
		return nil
	}
	if b.sess == nil {
		b.issue(b.fresh())
	}
	return b.sess
}

// ID returns the session id of ctx, or "".
func ID(ctx context.Context) string {
	if sess := FromContext(ctx); sess != nil {
		return sess.ID
	}
	return ""
}

// CustomerID returns the signed-in customer of ctx, or "".
func CustomerID(ctx context.Context) string {
	if sess := FromContext(ctx); sess != nil {
		return sess.CustomerID()
	}
	return ""
}

// SignIn binds customerID to a new session id and retires the old one, so a
// cookie handed out before sign-in never becomes authenticated. It returns the
// previous id ("" when the request had no session) for the caller to move the
// cart over.
func SignIn(ctx context.Context, customerID string) (previousID string, ok bool) {
	b := bindingFrom(ctx)
	if b == nil {
		return "", false
	}
	if b.sess != nil {
		previousID = b.sess.ID
		if b.store != nil {
			b.store.remove(previousID)
		}
	}
	sess := b.fresh()
	sess.setCustomer(customerID)
	b.issue(sess)
	return previousID, true
}

// SignOut makes the session of ctx anonymous again.
func SignOut(ctx context.Context) {
	if sess := FromContext(ctx); sess != nil {
		sess.setCustomer("")
	}
}
