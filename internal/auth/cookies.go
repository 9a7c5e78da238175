package auth

import "net/http"

const (
	// SessionCookieName is the cookie the dashboard presents on every
	// protected request.
	SessionCookieName = "auth_token"

	// SessionToken is the cookie's expected value. The session is stateless:
	// there is no server-side session table, validity is solely this
	// sentinel match.
	SessionToken = "authenticated"
)

// SetSessionCookie issues the session cookie after a successful login.
// HttpOnly keeps it away from page scripts, Secure restricts it to HTTPS,
// and SameSite=Strict stops cross-site sends.
func SetSessionCookie(w http.ResponseWriter, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    SessionToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie removes the session cookie on logout.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // serialized as Max-Age=0, deleting the cookie
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// IsAuthenticated reports whether the request carries a valid session
// cookie. Missing or malformed cookies are simply unauthenticated; this
// never returns an error to the caller.
func IsAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	return cookie.Value == SessionToken
}
