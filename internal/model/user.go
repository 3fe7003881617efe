// Package model defines the entities owned by the stores. Handlers return
// these structs directly, so json tags live here; credential material is
// excluded from serialization.
package model

import "time"

// User is an account record. The id is opaque and generated at
// registration; email is stored lowercased and unique. PasswordHash is a
// bcrypt hash, never serialized and never plaintext.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
