package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bryanwahyu/legalynx/internal/domain/user"
)

type contextKey string

const identityKey contextKey = "identity"

// Headers set by the auth proxy in front of the dashboard API
const (
	HeaderProxySecret = "X-Proxy-Secret"
	HeaderUserID      = "X-User-Id"
	HeaderUserEmail   = "X-User-Email"
	HeaderUserName    = "X-User-Name"
)

// ProxyIdentity trusts identity headers only when the request carries the
// shared proxy secret. An empty secret disables the secret check.
func ProxyIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Validate secret (constant-time comparison to prevent timing attacks)
			if secret != "" {
				got := r.Header.Get(HeaderProxySecret)
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					http.Error(w, "invalid proxy secret", http.StatusUnauthorized)
					return
				}
			}

			id := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if id == "" {
				http.Error(w, "missing user identity", http.StatusUnauthorized)
				return
			}
			if err := ValidateUserID(id); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			ident := user.Identity{
				ID:    id,
				Email: SanitizeString(r.Header.Get(HeaderUserEmail)),
				Name:  SanitizeString(r.Header.Get(HeaderUserName)),
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// WithIdentity stores the caller identity in ctx
func WithIdentity(ctx context.Context, ident user.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext extracts the caller identity from context
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(user.Identity)
	return ident, ok
}

// UserIDFromContext returns "" when no identity was set
func UserIDFromContext(ctx context.Context) string {
	ident, _ := IdentityFromContext(ctx)
	return ident.ID
}

// UserEnsurer creates the local user record on first sight
type UserEnsurer interface {
	EnsureUser(ctx context.Context, ident user.Identity) (*user.User, error)
}

// EnsureUser provisions the caller before the dashboard handlers run.
func EnsureUser(accounts UserEnsurer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "missing user identity", http.StatusUnauthorized)
				return
			}
			if _, err := accounts.EnsureUser(r.Context(), ident); err != nil {
				logger.Error("ensure user failed", slog.String("user_id", ident.ID), slog.Any("error", err))
				http.Error(w, "failed to load account", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
