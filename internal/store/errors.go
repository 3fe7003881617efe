// Package store owns all mutable application state: user accounts,
// sessions and the document/folder tree. Every store is an explicit object
// injected into the handlers, so tests run against isolated instances.
// The sentinel errors below let handlers translate failures into HTTP
// status codes with errors.Is instead of string matching.
package store

import "errors"

// ErrValidation indicates malformed or missing required input. Handlers
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("invalid input")

// ErrUnauthorized indicates a missing, unknown or expired session, or bad
// login credentials. The message stays generic so callers cannot probe
// which part of a credential was wrong. Handlers translate this into 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound indicates the entity does not exist or is owned by someone
// else. The two cases are deliberately indistinguishable so existence
// never leaks across users. Handlers translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists indicates a registration conflict on the email address.
// Handlers translate this into 409.
var ErrEmailExists = errors.New("email already exists")
