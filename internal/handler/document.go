package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"docnest/internal/queue"
	"docnest/internal/store"
)

// EventSink receives domain events raised by handlers. Satisfied by
// service.EventPublisher.
type EventSink interface {
	DocumentPublished(ctx context.Context, ev queue.DocumentPublishedEvent) error
}

// DocumentHandler serves the document CRUD endpoints.
type DocumentHandler struct {
	Tree   *store.TreeStore
	Events EventSink // optional; nil disables publishing
}

func NewDocumentHandler(tree *store.TreeStore, events EventSink) *DocumentHandler {
	return &DocumentHandler{Tree: tree, Events: events}
}

// Create handles POST /v1/documents.
func (h *DocumentHandler) Create(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req store.CreateDocument
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	doc, err := h.Tree.AddDocument(uid, req)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

// List handles GET /v1/documents with an optional parent_id filter.
func (h *DocumentHandler) List(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items := h.Tree.ListDocuments(uid, parentFilter(c))
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/documents/:id.
func (h *DocumentHandler) Get(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	doc, err := h.Tree.GetDocument(uid, c.Param("id"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// Update handles PATCH /v1/documents/:id. When the request flips
// isPublished on, a domain event goes out fire-and-forget; a broker outage
// never fails the request.
func (h *DocumentHandler) Update(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var upd store.DocumentUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	doc, prior, err := h.Tree.UpdateDocument(uid, c.Param("id"), upd)
	if err != nil {
		return storeError(c, err)
	}
	// Publishing an already-published document is a no-op for the event
	// pipeline; only the false-to-true transition announces anything.
	if doc.IsPublished && !prior.IsPublished && h.Events != nil {
		ev := queue.DocumentPublishedEvent{
			DocumentID:  doc.ID,
			Title:       doc.Title,
			AuthorID:    doc.AuthorID,
			PublishedAt: time.Now().UTC().Format(time.RFC3339),
		}
		// Detached from the request context on purpose: the response does
		// not wait for the broker.
		go func() { _ = h.Events.DocumentPublished(context.Background(), ev) }()
	}
	return c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /v1/documents/:id. Children of the deleted
// document become root-level.
func (h *DocumentHandler) Delete(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Tree.DeleteDocument(uid, c.Param("id")); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
