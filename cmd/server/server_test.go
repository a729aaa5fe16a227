package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/o.bakery/internal/db"
	"github.com/Simplici0/o.bakery/internal/logging"
	"github.com/Simplici0/o.bakery/internal/migrations"
	"github.com/Simplici0/o.bakery/internal/seed"
	"github.com/Simplici0/o.bakery/internal/settings"
	"github.com/Simplici0/o.bakery/internal/store"
)

const (
	testAdminEmail    = "admin@bakery.local"
	testAdminPassword = "s3cret"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv     *server
	handler http.Handler
	cookie  *http.Cookie
}

func newTestEnv(t *testing.T, opts routeOptions) *testEnv {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(ctx, database, "../../migrations"))
	_, err = seed.Run(ctx, database, seed.Config{AdminEmail: testAdminEmail, AdminPassword: testAdminPassword})
	require.NoError(t, err)

	if opts.rateLimit == 0 {
		opts.rateLimit = 1000
	}

	log := logging.Discard()
	srv := &server{
		auth:     newAuthService(database, []byte("test-secret"), time.Hour),
		store:    store.New(database),
		settings: settings.NewResolver(settings.NewSQLStore(database), log),
		log:      log,
		now:      func() time.Time { return testNow },
	}
	srv.auth.now = srv.now
	return &testEnv{srv: srv, handler: srv.routes(opts)}
}

// login authenticates as the seeded admin and keeps the session cookie.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/login", loginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			e.cookie = c
		}
	}
	require.NotNil(t, e.cookie, "session cookie not set")
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
