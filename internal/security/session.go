package security

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// TokenVerifier resolves a raw session token to a user id, "" when invalid.
type TokenVerifier func(token string) string

// ResolveSession reads the session cookie from r and resolves it to a user
// id. An absent or empty cookie short-circuits to "" without invoking verify;
// the cryptographic check only runs when a token is actually present.
func ResolveSession(r *http.Request, verify TokenVerifier) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return verify(cookie.Value)
}

// SetSessionCookie attaches token as an httpOnly, strict-same-site cookie
// valid for maxAge. Secure is set in production so the cookie never travels
// over plain HTTP there.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an empty value and
// Max-Age=0, which browsers treat as immediate deletion. The token itself is
// not revoked server-side; it simply ages out.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
