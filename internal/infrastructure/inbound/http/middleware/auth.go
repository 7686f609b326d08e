package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"pinstack-feed-service/internal/custom_errors"
	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
	"pinstack-feed-service/internal/domain/ports/output/security"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user_id"}

// Gate establishes the caller's identity from an "Authorization: Bearer" header.
type Gate struct {
	tokens security.TokenProvider
	log    ports.Logger
}

func NewGate(tokens security.TokenProvider, log ports.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// Authenticate verifies a raw token and returns the user it was issued to.
func (g *Gate) Authenticate(token string) (model.UserID, error) {
	if token == "" {
		return "", custom_errors.ErrNotAuthenticated
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return "", custom_errors.ErrInvalidToken
	}
	return claims.UserID, nil
}

func bearer(r *http.Request) (token string, present bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// Require rejects requests without a valid token with 401.
func (g *Gate) Require() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearer(r)
			if !present {
				unauthorized(w, custom_errors.ErrNotAuthenticated)
				return
			}
			userID, err := g.Authenticate(token)
			if err != nil {
				g.log.Debug("Rejected request with invalid token", slog.String("path", r.URL.Path))
				unauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// Optional attaches the identity when a valid token is present and lets every
// request through.
func (g *Gate) Optional() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, present := bearer(r); present {
				if userID, err := g.Authenticate(token); err == nil {
					r = r.WithContext(WithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUserID(ctx context.Context, id model.UserID) context.Context {
	return context.WithValue(ctx, userCtxKey, id)
}

// UserID returns the authenticated user, or custom_errors.ErrNotAuthenticated.
func UserID(ctx context.Context) (model.UserID, error) {
	id, _ := ctx.Value(userCtxKey).(model.UserID)
	if id == "" {
		return "", custom_errors.ErrNotAuthenticated
	}
	return id, nil
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": err.Error(), "data": nil})
}
