package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docnest/internal/store"
)

// SearchHandler serves GET /v1/search.
type SearchHandler struct {
	Index *store.SearchIndex
}

func NewSearchHandler(index *store.SearchIndex) *SearchHandler {
	return &SearchHandler{Index: index}
}

// Search runs a substring query over the caller's documents and folders.
// q is the query; type narrows the scope to document|folder|all. An empty
// query is not an error, it yields an empty result.
func (h *SearchHandler) Search(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	q := c.QueryParam("q")
	if q == "" {
		q = c.QueryParam("query")
	}
	scope := store.SearchScope(c.QueryParam("type"))
	if !store.ValidScope(scope) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be document, folder or all"})
	}
	return c.JSON(http.StatusOK, h.Index.Search(uid, q, scope))
}
