package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"docnest/internal/middleware"
	"docnest/internal/model"
	"docnest/internal/store"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users    *store.UserStore
	Sessions *store.SessionStore
}

func NewAuthHandler(u *store.UserStore, s *store.SessionStore) *AuthHandler {
	return &AuthHandler{Users: u, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type authResp struct {
	User    model.User    `json:"user"`
	Session model.Session `json:"session"`
}

// Register creates an account and logs it in immediately: the response
// carries the session token and the cookie is set alongside.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.Users.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return storeError(c, err)
	}
	sess := h.Sessions.Create(u.ID)
	setSessionCookie(c, sess)
	return c.JSON(http.StatusCreated, authResp{User: u, Session: sess})
}

// Login verifies credentials and issues a fresh session. Unknown email and
// wrong password are indistinguishable here by store contract.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	u, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	sess := h.Sessions.Create(u.ID)
	setSessionCookie(c, sess)
	return c.JSON(http.StatusOK, authResp{User: u, Session: sess})
}

// Logout removes the presented session and clears the cookie. Idempotent:
// an absent or already-expired token still yields 204.
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.TokenFromRequest(c); token != "" {
		h.Sessions.Delete(token)
	}
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the resolved user for the current session (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func setSessionCookie(c echo.Context, sess model.Session) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}
