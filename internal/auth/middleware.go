package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/imagevault/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type prevents collisions: only this package can
// read or write identity values in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is the authentication gate enforced on every protected route.
//
// Token lookup order matches the original API contract: the HttpOnly "jwt"
// cookie is checked first, then the "Authorization: Bearer <token>" header.
// Browser clients ride on the cookie; programmatic clients use the header.
//
// The gate distinguishes three failure kinds, each short-circuiting the
// request:
//   - no credential at all            → 401
//   - bad signature/expired/malformed → 401
//   - valid token whose subject no longer resolves to a user → 404
//
// The last case gets 404 (not 401) so a client holding a token for a
// deleted account can tell the difference from a stale/garbled token.
//
// A token that passes here only proves identity — per-resource ownership is
// still checked downstream by the owner-scoped queries.
func RequireAuth(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "no token found")
				return
			}

			id, err := tokens.Validate(tokenStr)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid_credential", "please authenticate")
				return
			}

			// The token may outlive the account it was issued for.
			if _, err := users.GetByID(r.Context(), id.UserID); err != nil {
				writeAuthError(w, http.StatusNotFound, "user_not_found", "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns (Identity{}, false) if the request did not pass through
// RequireAuth.
//
// Usage in handlers:
//
//	id, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // unreachable on a RequireAuth-protected route, but be safe
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// extractToken finds the bearer credential on the request: the "jwt" cookie
// first, then the Authorization header. Returns "" if neither is present.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("jwt"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// writeAuthError sends a small JSON error body without pulling in the
// handler package (which would create an import cycle).
func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + errType + `","message":"` + message + `"}`))
}
