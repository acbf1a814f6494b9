package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"bookcat/internal/auth"
)

const sessionCookieName = "bookcat_session"

type sessionClaimsKey struct{}

// SessionClaims pulls the verified admin identity out of the request
// context; nil outside the admin middleware.
func SessionClaims(ctx context.Context) *auth.SessionClaims {
	claims, _ := ctx.Value(sessionClaimsKey{}).(*auth.SessionClaims)
	return claims
}

// requireSession gates the admin surface on a valid session cookie.
// Missing, expired and tampered cookies all get the same 401.
func requireSession(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			claims, err := sessions.Verify(cookie.Value)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondUnauthorized(w http.ResponseWriter) {
	bs, _ := json.Marshal(map[string]any{"error": "authentication required"})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
