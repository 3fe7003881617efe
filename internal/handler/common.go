// Package handler implements the HTTP surface over the stores. Handlers
// bind and validate request shapes, delegate to the stores and map their
// sentinel errors onto status codes; every ownership and session check
// lives below this layer.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"docnest/internal/store"
)

// callerID extracts the authenticated user id placed in context by the
// session middleware.
func callerID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("missing user_id in context")
}

// storeError maps store sentinels onto the response contract:
// validation 400, auth 401, not-found 404, conflict 409, anything else 500.
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, store.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parentFilter builds the store listing filter from the parent_id query
// parameter: absent means no filter, "root" or an empty value selects
// root-level entities, anything else selects children of that id.
func parentFilter(c echo.Context) store.ListFilter {
	params := c.QueryParams()
	if !params.Has("parent_id") {
		return store.ListFilter{}
	}
	v := params.Get("parent_id")
	if v == "root" {
		v = ""
	}
	return store.ListFilter{ByParent: true, ParentID: v}
}
