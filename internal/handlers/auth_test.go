package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/crucial707/candidate-hub/internal/auth"
	"github.com/crucial707/candidate-hub/internal/repo"
	"github.com/crucial707/candidate-hub/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("test-secret")})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	svc := service.NewAuthService(repo.NewMemoryUserRepo(), auth.NewHasher(bcrypt.MinCost), tokens, 30*time.Minute)
	return &AuthHandler{Auth: svc}, tokens
}

func register(t *testing.T, h *AuthHandler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := mustJSON(t, map[string]string{"username": username, "password": password})
	req := httptest.NewRequest("POST", "/user", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)
	return rr
}

func TestAuthHandler_Register(t *testing.T) {
	h, _ := newAuthHandler(t)

	rr := register(t, h, "alice", "Verynewpass1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201", rr.Code)
	}
	var out struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	env := decodeEnvelope(t, rr, &out)
	if !env.OK || out.Username != "alice" || out.Password != "" {
		t.Errorf("unexpected response: %+v %+v", env, out)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h, _ := newAuthHandler(t)
	register(t, h, "alice", "one")

	rr := register(t, h, "alice", "two")
	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rr.Code)
	}
	if env := decodeEnvelope(t, rr, nil); env.Error == nil || env.Error.Code != "duplicate_username" {
		t.Errorf("unexpected error: %+v", env.Error)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h, _ := newAuthHandler(t)

	rr := register(t, h, "", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	env := decodeEnvelope(t, rr, nil)
	if env.Error.Fields["username"] != "required" || env.Error.Fields["password"] != "required" {
		t.Errorf("fields: %+v", env.Error.Fields)
	}
}

func TestAuthHandler_Register_PasswordByteLimit(t *testing.T) {
	h, _ := newAuthHandler(t)

	// 60 runes, 120 bytes.
	rr := register(t, h, "alice", strings.Repeat("é", 60))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	env := decodeEnvelope(t, rr, nil)
	if env.Error == nil || env.Error.Code != "validation_failed" || env.Error.Fields["password"] != "must be at most 72 bytes" {
		t.Errorf("unexpected error: %+v", env.Error)
	}

	if rr := register(t, h, "alice", strings.Repeat("é", 36)); rr.Code != http.StatusCreated {
		t.Errorf("72-byte password: got %d, want 201", rr.Code)
	}
}

func TestAuthHandler_Register_BadJSON(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/user", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestAuthHandler_Login_JSONAndForm(t *testing.T) {
	h, tokens := newAuthHandler(t)
	register(t, h, "alice", "Verynewpass1")

	jsonReq := httptest.NewRequest("POST", "/login",
		bytes.NewReader(mustJSON(t, map[string]string{"username": "alice", "password": "Verynewpass1"})))
	jsonReq.Header.Set("Content-Type", "application/json")

	form := url.Values{"username": {"alice"}, "password": {"Verynewpass1"}}
	formReq := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	formReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for name, req := range map[string]*http.Request{"json": jsonReq, "form": formReq} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Login(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("Login status: got %d, want 200", rr.Code)
			}
			var out struct {
				AccessToken string `json:"access_token"`
				TokenType   string `json:"token_type"`
			}
			decodeEnvelope(t, rr, &out)
			if out.TokenType != "bearer" {
				t.Errorf("token_type: got %q", out.TokenType)
			}
			if sub, err := tokens.Verify(out.AccessToken); err != nil || sub != "alice" {
				t.Errorf("token verify: sub=%q err=%v", sub, err)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, _ := newAuthHandler(t)
	register(t, h, "alice", "right")

	for _, creds := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": "right"},
	} {
		req := httptest.NewRequest("POST", "/login", bytes.NewReader(mustJSON(t, creds)))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: status got %d, want 401", creds["username"], rr.Code)
		}
		env := decodeEnvelope(t, rr, nil)
		if env.Error == nil || env.Error.Code != "unauthorized" {
			t.Errorf("unexpected error: %+v", env.Error)
		}
	}
}
