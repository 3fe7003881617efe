package model

import "time"

// Folder groups documents and other folders. ParentID must reference a
// folder owned by the same author; empty means root-level.
type Folder struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Icon       string    `json:"icon,omitempty"`
	ParentID   string    `json:"parentId,omitempty"`
	IsArchived bool      `json:"isArchived"`
	IsFavorite bool      `json:"isFavorite"`
	AuthorID   string    `json:"authorId"`
	SortOrder  float64   `json:"sortOrder"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Seq is the insertion sequence; see Document.Seq.
	Seq uint64 `json:"-"`
}
