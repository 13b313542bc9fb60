package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// CookieName is the cookie holding the session token.
const CookieName = "token"

// SessionHandlerFunc is a handler that runs only for verified sessions.
// The identity is passed explicitly instead of being stashed on the request.
type SessionHandlerFunc func(w http.ResponseWriter, r *http.Request, s Session)

// Gate rejects requests without a valid session cookie.
type Gate struct {
	Tokens *TokenIssuer
}

// Require wraps next so that it only runs with a verified session.
// Missing, malformed, tampered or expired tokens all get 401.
func (g *Gate) Require(next SessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			unauthorized(w)
			return
		}

		session, err := g.Tokens.Verify(cookie.Value)
		if err != nil {
			slog.DebugContext(r.Context(), "session rejected", "path", r.URL.Path, "error", err)
			unauthorized(w)
			return
		}

		next(w, r, session)
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// SetSessionCookie stores token in an http-only cookie that lives as long as the token.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
