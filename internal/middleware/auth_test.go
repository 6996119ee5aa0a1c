package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/auth"
	"github.com/crucial707/candidate-hub/internal/models"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s[username]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}

type resolverFunc func(ctx context.Context, token string) (*models.User, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*models.User, error) {
	return f(ctx, token)
}

func newResolver(t *testing.T, now func() time.Time) (*auth.Resolver, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("mw-secret"), Now: now})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return auth.NewResolver(tokens, stubUsers{"alice": {ID: 1, Username: "alice"}}), tokens
}

func TestAuthenticate_ValidToken(t *testing.T) {
	resolver, tokens := newResolver(t, time.Now)
	tok, err := tokens.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var seen *models.User
	h := Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if seen == nil || seen.Username != "alice" {
		t.Errorf("user in context: %+v", seen)
	}
}

func TestAuthenticate_ExpiredTokenNeverReachesHandler(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := issued
	resolver, tokens := newResolver(t, func() time.Time { return clock })
	tok, err := tokens.Issue("alice", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	clock = issued.Add(time.Minute)

	called := false
	h := Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/all-candidates", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler must not run for an expired token")
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("missing WWW-Authenticate header")
	}
	var env struct {
		OK    bool `json:"ok"`
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.OK || env.Error.Code != "unauthorized" || env.Error.Message != "token expired" {
		t.Errorf("unexpected body: %+v", env)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	resolver, tokens := newResolver(t, time.Now)
	ghost, _ := tokens.Issue("ghost", time.Minute)

	cases := map[string]string{
		"no header":    "",
		"wrong scheme": "Basic abc",
		"empty token":  "Bearer ",
		"garbage":      "Bearer not-a-token",
		"unknown user": "Bearer " + ghost,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			h := Authenticate(resolver)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized || called {
				t.Errorf("got status %d called=%v, want 401 and not called", rec.Code, called)
			}
		})
	}
}

func TestAuthenticate_LookupFailureIs500(t *testing.T) {
	r := resolverFunc(func(context.Context, string) (*models.User, error) {
		return nil, errors.New("db down")
	})
	h := Authenticate(r)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
}
