package domain

import (
	"net/http"
	"time"
)

const (
	// SessionCookieName is the cookie that carries the remote authority's session token.
	SessionCookieName = "token"
	// SessionMaxAge is the fixed lifetime of a session cookie. Sessions are never refreshed.
	SessionMaxAge = 24 * time.Hour
)

// NewSessionCookie builds the cookie set after a successful login
func NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearedSessionCookie builds the cookie that de-authenticates the browser on logout.
// MaxAge is -1 so net/http emits "Max-Age=0".
func ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// SessionToken returns the session token carried by the request, if any
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
