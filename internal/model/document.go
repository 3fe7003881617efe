package model

import "time"

// Document is a rich-text page. Content is an opaque string produced by
// the editor; the server never parses it. ParentID may reference a folder
// or another document owned by the same author; empty means root-level.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Icon        string    `json:"icon,omitempty"`
	CoverImage  string    `json:"coverImage,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	IsArchived  bool      `json:"isArchived"`
	IsPublished bool      `json:"isPublished"`
	IsFavorite  bool      `json:"isFavorite"`
	AuthorID    string    `json:"authorId"`
	Tags        []string  `json:"tags"`
	SortOrder   float64   `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Seq is the insertion sequence, used as an ordering tiebreaker so
	// listings stay deterministic. Not part of the API surface.
	Seq uint64 `json:"-"`
}
