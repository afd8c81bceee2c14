package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "session_id"

// sessionID reads the session cookie, minting one when absent. The
// cookie scopes the cart, shipping snapshot and order listing; it stands
// in for the external identity provider this service does not own.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   24 * 60 * 60,
	})
	return sid
}
