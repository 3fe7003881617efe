package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnest/internal/handler"
	"docnest/internal/middleware"
	"docnest/internal/queue"
	"docnest/internal/store"
)

// newTestServer wires a full server against fresh in-memory stores, with
// no Redis and no broker, mirroring the production wiring in cmd/server.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	users := store.NewUserStore(4)
	sessions := store.NewSessionStore(24 * time.Hour)
	tree := store.NewTreeStore()
	index := store.NewSearchIndex(tree)

	e := echo.New()
	Register(e, Deps{
		Auth:        handler.NewAuthHandler(users, sessions),
		Users:       handler.NewUserHandler(users),
		Docs:        handler.NewDocumentHandler(tree, nil),
		Folders:     handler.NewFolderHandler(tree),
		Search:      handler.NewSearchHandler(index),
		SessionAuth: middleware.SessionAuth(users, sessions),
	})
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, e *echo.Echo, name, email, password string) (userID, token string) {
	t.Helper()
	w := doJSON(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.User.ID)
	require.NotEmpty(t, resp.Session.ID)
	return resp.User.ID, resp.Session.ID
}

func TestRegisterLoginFlow(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	// The registration response doubles as a login.
	w := doJSON(t, e, http.MethodGet, "/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Fresh login issues a distinct session.
	w = doJSON(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	if cookies := w.Result().Cookies(); assert.NotEmpty(t, cookies) {
		assert.Equal(t, middleware.CookieName, cookies[0].Name)
	}

	// Wrong password and unknown email produce the same body.
	bad1 := doJSON(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	bad2 := doJSON(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, bad1.Code)
	assert.Equal(t, http.StatusUnauthorized, bad2.Code)
	assert.Equal(t, bad1.Body.String(), bad2.Body.String())
}

func TestDuplicateEmailConflict(t *testing.T) {
	e := newTestServer(t)
	registerUser(t, e, "Ann", "a@x.com", "secret1")

	w := doJSON(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Imposter", "email": "a@x.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthPrecedesNotFound(t *testing.T) {
	e := newTestServer(t)

	// No session: a request for a nonexistent resource reports 401, not 404.
	w := doJSON(t, e, http.MethodGet, "/v1/documents/no-such-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, e, http.MethodGet, "/v1/documents/no-such-id", "expired-or-bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	e := newTestServer(t)
	annID, annToken := registerUser(t, e, "Ann", "a@x.com", "secret1")
	_, bobToken := registerUser(t, e, "Bob", "b@x.com", "secret2")

	// Ann creates a document with defaults per contract.
	w := doJSON(t, e, http.MethodPost, "/v1/documents", annToken, map[string]string{"title": "Notes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc struct {
		ID         string `json:"id"`
		AuthorID   string `json:"authorId"`
		Content    string `json:"content"`
		IsArchived bool   `json:"isArchived"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, annID, doc.AuthorID)
	assert.Equal(t, "", doc.Content)
	assert.False(t, doc.IsArchived)

	// Bob cannot see it, and cannot tell it exists.
	w = doJSON(t, e, http.MethodGet, "/v1/documents/"+doc.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Ann finds it by search; Bob does not.
	w = doJSON(t, e, http.MethodGet, "/v1/search?q=note", annToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var annRes store.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &annRes))
	require.Len(t, annRes.Documents, 1)
	assert.Equal(t, "Notes", annRes.Documents[0].Title)

	w = doJSON(t, e, http.MethodGet, "/v1/search?q=note", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bobRes store.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobRes))
	assert.Zero(t, bobRes.Total)
}

func TestFolderChildListing(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	w := doJSON(t, e, http.MethodPost, "/v1/folders", token, map[string]string{"title": "F"})
	require.Equal(t, http.StatusCreated, w.Code)
	var folder struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &folder))

	w = doJSON(t, e, http.MethodPost, "/v1/documents", token, map[string]string{
		"title": "D", "parentId": folder.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w = doJSON(t, e, http.MethodGet, "/v1/documents?parent_id="+folder.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Items, 1)
	assert.Equal(t, doc.ID, listing.Items[0].ID)

	// Deleting the document empties the folder listing.
	w = doJSON(t, e, http.MethodDelete, "/v1/documents/"+doc.ID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, e, http.MethodGet, "/v1/documents?parent_id="+folder.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Empty(t, listing.Items)
}

func TestCookieAuthentication(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	w := doJSON(t, e, http.MethodPost, "/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Session is gone.
	w = doJSON(t, e, http.MethodGet, "/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out again, or with no token at all, still succeeds.
	w = doJSON(t, e, http.MethodPost, "/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, e, http.MethodPost, "/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProfileUpdate(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	w := doJSON(t, e, http.MethodPatch, "/v1/users/profile", token, map[string]string{
		"avatar": "https://example.com/ann.png",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		User struct {
			Name   string `json:"name"`
			Avatar string `json:"avatar"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ann", resp.User.Name, "unspecified fields stay put")
	assert.Equal(t, "https://example.com/ann.png", resp.User.Avatar)
}

func TestValidationErrors(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	w := doJSON(t, e, http.MethodPost, "/v1/documents", token, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodGet, "/v1/search?q=x&type=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, e, http.MethodPost, "/v1/documents", token, map[string]string{
		"title": "D", "parentId": "missing-parent",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEmptyQueryIsNotAnError(t *testing.T) {
	e := newTestServer(t)
	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")

	w := doJSON(t, e, http.MethodGet, "/v1/search?q=", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res store.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Zero(t, res.Total)
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)
	w := doJSON(t, e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

// recordingSink captures published events so tests can observe the
// fire-and-forget pipeline. The channel is buffered; a send never blocks
// the handler goroutine.
type recordingSink struct {
	events chan queue.DocumentPublishedEvent
}

func (r *recordingSink) DocumentPublished(_ context.Context, ev queue.DocumentPublishedEvent) error {
	r.events <- ev
	return nil
}

func TestPublishEventFiresOnlyOnTransition(t *testing.T) {
	users := store.NewUserStore(4)
	sessions := store.NewSessionStore(24 * time.Hour)
	tree := store.NewTreeStore()
	sink := &recordingSink{events: make(chan queue.DocumentPublishedEvent, 4)}

	e := echo.New()
	Register(e, Deps{
		Auth:        handler.NewAuthHandler(users, sessions),
		Users:       handler.NewUserHandler(users),
		Docs:        handler.NewDocumentHandler(tree, sink),
		Folders:     handler.NewFolderHandler(tree),
		Search:      handler.NewSearchHandler(store.NewSearchIndex(tree)),
		SessionAuth: middleware.SessionAuth(users, sessions),
	})

	userID, token := registerUser(t, e, "Ann", "a@x.com", "secret1")
	w := doJSON(t, e, http.MethodPost, "/v1/documents", token, map[string]string{"title": "Draft"})
	require.Equal(t, http.StatusCreated, w.Code)
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	// First publish fires exactly one event.
	w = doJSON(t, e, http.MethodPatch, "/v1/documents/"+doc.ID, token, map[string]any{"isPublished": true})
	require.Equal(t, http.StatusOK, w.Code)
	select {
	case ev := <-sink.events:
		assert.Equal(t, doc.ID, ev.DocumentID)
		assert.Equal(t, "Draft", ev.Title)
		assert.Equal(t, userID, ev.AuthorID)
	case <-time.After(time.Second):
		t.Fatal("expected a publish event")
	}

	// Re-sending isPublished=true on an already-published document is a
	// no-op for the pipeline.
	w = doJSON(t, e, http.MethodPatch, "/v1/documents/"+doc.ID, token, map[string]any{"isPublished": true})
	require.Equal(t, http.StatusOK, w.Code)
	select {
	case <-sink.events:
		t.Fatal("no event expected for an already-published document")
	case <-time.After(50 * time.Millisecond):
	}

	// Unpublishing and publishing again is a fresh transition.
	w = doJSON(t, e, http.MethodPatch, "/v1/documents/"+doc.ID, token, map[string]any{"isPublished": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, e, http.MethodPatch, "/v1/documents/"+doc.ID, token, map[string]any{"isPublished": true})
	require.Equal(t, http.StatusOK, w.Code)
	select {
	case ev := <-sink.events:
		assert.Equal(t, doc.ID, ev.DocumentID)
	case <-time.After(time.Second):
		t.Fatal("expected a publish event after re-publishing")
	}
}

func TestSessionExpiryOverHTTP(t *testing.T) {
	users := store.NewUserStore(4)
	sessions := store.NewSessionStore(10 * time.Millisecond)
	tree := store.NewTreeStore()

	e := echo.New()
	Register(e, Deps{
		Auth:        handler.NewAuthHandler(users, sessions),
		Users:       handler.NewUserHandler(users),
		Docs:        handler.NewDocumentHandler(tree, nil),
		Folders:     handler.NewFolderHandler(tree),
		Search:      handler.NewSearchHandler(store.NewSearchIndex(tree)),
		SessionAuth: middleware.SessionAuth(users, sessions),
	})

	_, token := registerUser(t, e, "Ann", "a@x.com", "secret1")
	time.Sleep(25 * time.Millisecond)

	w := doJSON(t, e, http.MethodGet, "/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, sessions.Active(), "expired session must be purged on use")
}
