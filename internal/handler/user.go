package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docnest/internal/store"
)

// UserHandler serves the profile endpoints.
type UserHandler struct {
	Users *store.UserStore
}

func NewUserHandler(u *store.UserStore) *UserHandler {
	return &UserHandler{Users: u}
}

// GetProfile handles GET /v1/users/profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(uid)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// UpdateProfile handles PATCH /v1/users/profile. Only the provided fields
// change; email stays immutable.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var upd store.ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.Users.UpdateProfile(uid, upd)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
