package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/loginapi/internal/ctxkeys"
	"github.com/templui/loginapi/internal/model"
	"github.com/templui/loginapi/internal/service"
)

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// RequireToken gates a handler on a valid bearer token.
// Missing token: 401 "Access token required".
// Bad signature, malformed or expired: 403 "Invalid or expired token".
// On success the identity is attached with ctxkeys.WithIdentity.
func RequireToken(tokens TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				writeError(w, service.ErrTokenRequired)
				return
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidToken) && !errors.Is(err, service.ErrTokenRequired) {
					slog.Error("token verification failed", "error", err, "request_id", ctxkeys.RequestID(r.Context()))
					err = service.ErrInvalidToken
				}
				slog.Debug("rejected token", "error", err, "path", r.URL.Path)
				writeError(w, err)
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
