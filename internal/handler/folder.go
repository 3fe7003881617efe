package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docnest/internal/store"
)

// FolderHandler serves the folder CRUD endpoints.
type FolderHandler struct {
	Tree *store.TreeStore
}

func NewFolderHandler(tree *store.TreeStore) *FolderHandler {
	return &FolderHandler{Tree: tree}
}

// Create handles POST /v1/folders.
func (h *FolderHandler) Create(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req store.CreateFolder
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	folder, err := h.Tree.AddFolder(uid, req)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, folder)
}

// List handles GET /v1/folders with an optional parent_id filter.
func (h *FolderHandler) List(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items := h.Tree.ListFolders(uid, parentFilter(c))
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/folders/:id.
func (h *FolderHandler) Get(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	folder, err := h.Tree.GetFolder(uid, c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, folder)
}

// Update handles PATCH /v1/folders/:id.
func (h *FolderHandler) Update(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var upd store.FolderUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	folder, err := h.Tree.UpdateFolder(uid, c.Param("id"), upd)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, folder)
}

// Delete handles DELETE /v1/folders/:id. Children move to root rather
// than cascading.
func (h *FolderHandler) Delete(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Tree.DeleteFolder(uid, c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
