// Package auth provides the shared-secret check in front of the admin API.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/stacklok/rust-tracker/internal/logger"
)

// defaultRealm is the protection space reported in WWW-Authenticate
const defaultRealm = "rust-tracker"

// SharedSecretMiddleware rejects requests whose Authorization header does not
// carry the secret, either bare or as a Bearer token. An empty secret disables
// the check.
func SharedSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		want := []byte(secret)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "invalid_request", "missing authorization header")
				return
			}
			got := strings.TrimSpace(header)
			if token, ok := strings.CutPrefix(got, "Bearer "); ok {
				got = strings.TrimSpace(token)
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				logger.Debugw("Rejected admin request", "path", r.URL.Path, "remote", r.RemoteAddr)
				writeError(w, http.StatusForbidden, "invalid_token", "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sanitizeHeaderValue strips CR/LF and escapes quotes for use in a quoted-string
func sanitizeHeaderValue(s string) string {
	if !strings.ContainsAny(s, "\r\n\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// writeError writes a JSON error response with a Bearer WWW-Authenticate challenge
func writeError(w http.ResponseWriter, status int, errCode, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s", error="%s", error_description="%s"`,
		defaultRealm, errCode, sanitizeHeaderValue(description)))
	w.WriteHeader(status)

	resp := struct {
		Error string `json:"error"`
	}{
		Error: description,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Errorf("Failed to encode error response: %v", err)
	}
}

// WrapWithPublicPaths wraps an auth middleware to bypass it for public paths.
// Requests matching IsPublicPath go straight to next.
func WrapWithPublicPaths(
	authMw func(http.Handler) http.Handler,
	publicPaths []string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authWrappedNext := authMw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}
			authWrappedNext.ServeHTTP(w, r)
		})
	}
}
