package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/go-tempcred-api/internal/infrastructure/jwt"
)

// SessionCookie carries the signed admin session set by the admin login.
const SessionCookie = "admin_session"

// LoginPath is where browsers without a session are sent.
const LoginPath = "/auth-admin"

type contextKey string

const claimsKey contextKey = "claims"

type sessionVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the admin session, read from the
// session cookie or a Bearer header, and injects its claims into context.
// Page requests without a valid session are redirected to the login page.
func Auth(provider sessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := sessionToken(r)
			if tokenStr == "" {
				deny(w, r, "missing admin session")
				return
			}
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				deny(w, r, "invalid or expired admin session")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func deny(w http.ResponseWriter, r *http.Request, msg string) {
	if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	writeJSONError(w, http.StatusUnauthorized, msg)
}

// ClaimsFromContext extracts the admin session claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}
