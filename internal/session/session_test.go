package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, store *Store, cookie *http.Cookie, h http.HandlerFunc) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	store.Middleware(h).ServeHTTP(w, req)
	return w.Result()
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

// clock is a settable time source for expiry tests.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMiddleware_AnonymousRequestsCreateNoSession(t *testing.T) {
	store := NewStore()

	// GIVEN many requests without cookie that never need a session
	for i := 0; i < 1000; i++ {
		resp := serve(t, store, nil, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, ID(r.Context()))
			assert.Empty(t, CustomerID(r.Context()))
		})

		// THEN no cookie is issued
		assert.Nil(t, sessionCookie(resp))
	}

	// AND the store stays empty
	assert.Equal(t, 0, store.Len())
}

func TestEnsure_IssuesCookieOnce(t *testing.T) {
	store := NewStore()
	var first string

	// GIVEN a request without cookie whose handler needs a session
	resp := serve(t, store, nil, func(w http.ResponseWriter, r *http.Request) {
		first = Ensure(r.Context()).ID
		assert.Equal(t, first, Ensure(r.Context()).ID)
	})

	// THEN a session and its cookie are created
	c := sessionCookie(resp)
	require.NotNil(t, c)
	assert.Equal(t, first, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)

	// WHEN the cookie is sent back
	var second string
	resp = serve(t, store, c, func(w http.ResponseWriter, r *http.Request) {
		second = Ensure(r.Context()).ID
	})

	// THEN the same session is used and no new cookie is set
	assert.Equal(t, first, second)
	assert.Nil(t, sessionCookie(resp))
	assert.Equal(t, 1, store.Len())
}

func TestMiddleware_UnknownCookieIsAnonymous(t *testing.T) {
	store := NewStore()
	forged := &http.Cookie{Name: CookieName, Value: "forged"}

	resp := serve(t, store, forged, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, ID(r.Context()))
	})
	assert.Nil(t, sessionCookie(resp))

	resp = serve(t, store, forged, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, "forged", Ensure(r.Context()).ID)
	})
	c := sessionCookie(resp)
	require.NotNil(t, c)
	assert.NotEqual(t, "forged", c.Value)
	assert.Equal(t, 1, store.Len())
}

func TestStore_IdleSessionsExpire(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.IdleTimeout = time.Hour
	store.now = clk.now

	// GIVEN two sessions, one of which keeps being used
	ensure := func(w http.ResponseWriter, r *http.Request) { Ensure(r.Context()) }
	idle := sessionCookie(serve(t, store, nil, ensure))
	active := sessionCookie(serve(t, store, nil, ensure))
	require.Equal(t, 2, store.Len())

	for i := 0; i < 3; i++ {
		clk.advance(30 * time.Minute)
		serve(t, store, active, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, active.Value, ID(r.Context()))
		})
	}

	// THEN the idle one is swept while the active one survives
	assert.Equal(t, 1, store.Len())
	serve(t, store, idle, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, ID(r.Context()))
	})

	// AND the active one expires as well once left alone
	clk.advance(2 * time.Hour)
	serve(t, store, active, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, ID(r.Context()))
	})
	assert.Equal(t, 0, store.Len())
}

func TestSignIn_RotatesSessionID(t *testing.T) {
	store := NewStore()
	anon := sessionCookie(serve(t, store, nil, func(w http.ResponseWriter, r *http.Request) {
		Ensure(r.Context())
	}))
	require.NotNil(t, anon)

	// WHEN signing in on the anonymous session
	var previous string
	resp := serve(t, store, anon, func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		previous, ok = SignIn(r.Context(), "admin")
		assert.True(t, ok)
		assert.Equal(t, "admin", CustomerID(r.Context()))
		assert.NotEqual(t, anon.Value, ID(r.Context()))
	})

	// THEN a new cookie replaces the old id
	signedIn := sessionCookie(resp)
	require.NotNil(t, signedIn)
	assert.Equal(t, anon.Value, previous)
	assert.NotEqual(t, anon.Value, signedIn.Value)
	assert.Equal(t, 1, store.Len())

	// AND the old cookie no longer carries any identity
	serve(t, store, anon, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, CustomerID(r.Context()))
		assert.Empty(t, ID(r.Context()))
	})
	serve(t, store, signedIn, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin", CustomerID(r.Context()))
	})
}

func TestSignInSignOut(t *testing.T) {
	store := NewStore()
	resp := serve(t, store, nil, func(w http.ResponseWriter, r *http.Request) {
		previous, ok := SignIn(r.Context(), "admin")
		assert.True(t, ok)
		assert.Empty(t, previous)
		assert.Equal(t, "admin", CustomerID(r.Context()))
	})
	c := sessionCookie(resp)
	require.NotNil(t, c)

	serve(t, store, c, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin", CustomerID(r.Context()))
		SignOut(r.Context())
	})
	serve(t, store, c, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, CustomerID(r.Context()))
		assert.Equal(t, c.Value, ID(r.Context()))
	})
}

func TestWithSession(t *testing.T) {
	ctx := WithSession(context.Background(), NewSession("sess-1", "admin"))
	assert.Equal(t, "sess-1", ID(ctx))
	assert.Equal(t, "admin", CustomerID(ctx))

	previous, ok := SignIn(ctx, "sprout")
	assert.True(t, ok)
	assert.Equal(t, "sess-1", previous)
	assert.NotEqual(t, "sess-1", ID(ctx))
	assert.Equal(t, "sprout", CustomerID(ctx))
}

func TestOutsideMiddleware(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ID(ctx))
	assert.Empty(t, CustomerID(ctx))
	assert.Nil(t, Ensure(ctx))
	_, ok := SignIn(ctx, "admin")
	assert.False(t, ok)
	SignOut(ctx)
}
