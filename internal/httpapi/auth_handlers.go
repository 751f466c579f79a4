package httpapi

import (
	"errors"
	"net/http"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/obs"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// handleSignIn exchanges credentials for a session token. The route is
// gated on the shared service token so only the deployed frontend can
// reach the password path.
func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := a.verifyServiceToken(r); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid bearer token")
		return
	}

	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := a.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBlocked):
			obs.CountSignIn("blocked")
			writeError(w, r, http.StatusForbidden, "account is blocked")
		case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrNotFound):
			obs.CountSignIn("invalid")
			writeError(w, r, http.StatusUnauthorized, "invalid email or password")
		default:
			a.fail(w, r, err)
		}
		return
	}

	obs.CountSignIn("success")
	_ = audit.LogEvent(r.Context(), "auth.signin", map[string]any{
		"email": user.Email,
	})
	writeData(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// handleVerify validates a session token from the body and returns the
// account it belongs to. The frontend calls this on page load.
func (a *API) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Token == "" {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return
	}

	principal, err := a.auth.Authenticate(r.Context(), req.Token)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid token")
		return
	}
	writeData(w, http.StatusOK, principal.User)
}

// handleSignOut acknowledges a sign-out. Sessions are stateless JWTs,
// so the server only records the event; the client drops the token.
func (a *API) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok && principal.User != nil {
		_ = audit.LogEvent(r.Context(), "auth.signout", map[string]any{
			"email": principal.User.Email,
		})
	}
	writeMessage(w, http.StatusOK, "signed out")
}
