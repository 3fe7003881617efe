package model

import "time"

// Session is a server-side login session. ID is the opaque bearer token
// handed to the client; it carries no claims and is resolved to a user
// only through the session store (token -> session -> userId). A user may
// hold several sessions at once.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
