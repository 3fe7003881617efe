// Package router wires HTTP routes to their handlers. Routes carry no
// authorization logic of their own: the session middleware authenticates
// everything under the protected group, and ownership checks live in the
// stores.
package router

import (
	"github.com/labstack/echo/v4"

	"docnest/internal/handler"
)

// Deps collects everything route registration needs.
type Deps struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Docs    *handler.DocumentHandler
	Folders *handler.FolderHandler
	Search  *handler.SearchHandler

	// SessionAuth guards the protected group; Extra (rate limiting,
	// response caching) is applied after it in order.
	SessionAuth echo.MiddlewareFunc
	Extra       []echo.MiddlewareFunc
}

// Register sets up all application routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth operations. Logout lives here on purpose: it is
	// idempotent and must succeed even with an expired or absent session.
	auth := e.Group("/v1/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	api := e.Group("/v1", d.SessionAuth)
	for _, mw := range d.Extra {
		api.Use(mw)
	}

	api.GET("/me", d.Auth.Me)
	api.GET("/users/profile", d.Users.GetProfile)
	api.PATCH("/users/profile", d.Users.UpdateProfile)

	api.POST("/documents", d.Docs.Create)
	api.GET("/documents", d.Docs.List)
	api.GET("/documents/:id", d.Docs.Get)
	api.PATCH("/documents/:id", d.Docs.Update)
	api.DELETE("/documents/:id", d.Docs.Delete)

	api.POST("/folders", d.Folders.Create)
	api.GET("/folders", d.Folders.List)
	api.GET("/folders/:id", d.Folders.Get)
	api.PATCH("/folders/:id", d.Folders.Update)
	api.DELETE("/folders/:id", d.Folders.Delete)

	api.GET("/search", d.Search.Search)
}
