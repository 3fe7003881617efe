package store

import (
	"strings"

	"docnest/internal/model"
)

// SearchScope selects which entity kinds a query runs against.
type SearchScope string

const (
	ScopeAll      SearchScope = "all"
	ScopeDocument SearchScope = "document"
	ScopeFolder   SearchScope = "folder"
)

// ValidScope reports whether s names a known scope. The empty string is
// accepted and treated as ScopeAll.
func ValidScope(s SearchScope) bool {
	switch s {
	case "", ScopeAll, ScopeDocument, ScopeFolder:
		return true
	}
	return false
}

// SearchResult is the payload returned for a search query.
type SearchResult struct {
	Documents []model.Document `json:"documents"`
	Folders   []model.Folder   `json:"folders"`
	Total     int              `json:"total"`
}

// SearchIndex is a derived, read-only view over a TreeStore. Matching is
// recomputed per query, so it is always consistent with the store and
// cheap at personal-workspace scale; the type boundary keeps the door open
// for a persistent index later.
type SearchIndex struct {
	tree *TreeStore
}

// NewSearchIndex builds an index over the given tree.
func NewSearchIndex(tree *TreeStore) *SearchIndex {
	return &SearchIndex{tree: tree}
}

// Search runs a case-insensitive substring query over the caller's
// entities. Documents match on title, content or any tag; folders on
// title. An empty or whitespace-only query yields an empty result. Output
// order follows the store's listing order, so identical store state gives
// identical results.
func (x *SearchIndex) Search(callerID, query string, scope SearchScope) SearchResult {
	res := SearchResult{
		Documents: []model.Document{},
		Folders:   []model.Folder{},
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res
	}
	if scope == "" {
		scope = ScopeAll
	}

	if scope == ScopeAll || scope == ScopeDocument {
		for _, d := range x.tree.ListDocuments(callerID, ListFilter{}) {
			if documentMatches(d, q) {
				res.Documents = append(res.Documents, d)
			}
		}
	}
	if scope == ScopeAll || scope == ScopeFolder {
		for _, f := range x.tree.ListFolders(callerID, ListFilter{}) {
			if strings.Contains(strings.ToLower(f.Title), q) {
				res.Folders = append(res.Folders, f)
			}
		}
	}
	res.Total = len(res.Documents) + len(res.Folders)
	return res
}

func documentMatches(d model.Document, q string) bool {
	if strings.Contains(strings.ToLower(d.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(d.Content), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
