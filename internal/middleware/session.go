package middleware // middleware contains reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"docnest/internal/store"
)

// CookieName is the session cookie set at login and cleared at logout.
const CookieName = "session_id"

// TokenFromRequest extracts the session token from the Authorization
// header ("Bearer <token>") or, failing that, from the session cookie.
// The header wins when both are present.
func TokenFromRequest(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// SessionAuth returns middleware that resolves the caller's session before
// any handler logic runs, so authentication failures always precede
// not-found or validation outcomes. On success the resolved user id and
// record are stored in the context under "user_id" and "user". The token
// is never interpreted as a user id; it only keys the session table.
func SessionAuth(users *store.UserStore, sessions *store.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := sessions.Resolve(TokenFromRequest(c))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			u, err := users.GetByID(sess.UserID)
			if err != nil {
				// Session for an account that no longer resolves; drop it.
				sessions.Delete(sess.ID)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set("user_id", u.ID)
			c.Set("user", u)
			return next(c)
		}
	}
}
