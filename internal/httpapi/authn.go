package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"systemaide.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// publicPaths carry their own gate (service token, verify body token)
// or none at all.
var publicPaths = []string{
	"/api/connection",
	"/api/auth/signin",
	"/api/auth/verify",
	"/healthz",
	"/readyz",
	"/metrics",
}

// withSession authenticates every non-public request from the session
// bearer token and attaches the resolved principal to the context.
func (a *API) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		// Blocked accounts fail here too: a still-valid token does
		// not survive the status check.
		principal, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) || errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, r, http.StatusUnauthorized, "invalid token")
			} else {
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// require wraps a handler with a policy check against the principal the
// session middleware resolved.
func (a *API) require(policy auth.Policy, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if err := policy(principal); err != nil {
			a.fail(w, r, err)
			return
		}
		next(w, r)
	}
}

// verifyServiceToken checks the shared bearer secret that gates the
// pre-session endpoints.
func (a *API) verifyServiceToken(r *http.Request) error {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return err
	}
	return a.auth.Tokens().VerifyServiceToken(token)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
