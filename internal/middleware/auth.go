package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
	"github.com/crucial707/candidate-hub/internal/respond"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type userKey struct{}

// IdentityResolver turns a bearer token into the user it was issued to.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok && u != nil
}

// Authenticate resolves the bearer token on every request. Requests that fail
// resolution get 401 and never reach next.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			switch {
			case errors.Is(err, apperr.ErrExpiredToken):
				unauthorized(w, "token expired")
				return
			case errors.Is(err, apperr.ErrUnauthorized):
				slog.Debug("authentication rejected",
					"request_id", chimw.GetReqID(r.Context()),
					"reason", err)
				unauthorized(w, "could not validate credentials")
				return
			case err != nil:
				slog.Error("resolve identity",
					"request_id", chimw.GetReqID(r.Context()),
					"error", err)
				respond.Error(w, http.StatusInternalServerError, "internal", "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respond.Error(w, http.StatusUnauthorized, "unauthorized", message)
}
