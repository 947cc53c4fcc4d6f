// Package auth authenticates tool gateway callers by API key.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/bturcanu/voicehook/pkg/types"
)

type contextKey string

const callerKey contextKey = "caller"

// publicPaths are probe endpoints that never require a key.
var publicPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// CallerFromContext returns the authenticated caller name, or "".
func CallerFromContext(ctx context.Context) string {
	v, _ := ctx.Value(callerKey).(string)
	return v
}

// WithCaller returns a context carrying caller.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// APIKeyAuth rejects requests without a known key in X-API-Key or an
// Authorization bearer token, and stores the caller name in the context.
func APIKeyAuth(keys *KeyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
					apiKey = strings.TrimSpace(bearer)
				}
			}
			if apiKey == "" {
				types.ErrUnauthorized("missing API key").WriteJSON(w)
				return
			}

			caller, ok := keys.Lookup(apiKey)
			if !ok {
				types.ErrUnauthorized("invalid API key").WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}
