package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docnest/internal/model"
)

// TreeStore owns the document/folder tree. Ownership is the only
// authorization boundary: every operation takes the resolved caller id and
// treats entities owned by other users exactly like missing ones. A single
// RWMutex serializes writes across both collections so parent checks and
// mutations observe a consistent tree.
//
// Structural invariants enforced here:
//   - a parent must exist and be owned by the caller; a document may nest
//     under a folder or a document, a folder only under a folder
//   - the parent relation is acyclic
//   - deleting an entity re-parents its direct children to root, so no
//     dangling parent ids survive
type TreeStore struct {
	mu      sync.RWMutex
	docs    map[string]*model.Document
	folders map[string]*model.Folder
	seq     uint64
}

// NewTreeStore creates an empty tree.
func NewTreeStore() *TreeStore {
	return &TreeStore{
		docs:    make(map[string]*model.Document),
		folders: make(map[string]*model.Folder),
	}
}

// ListFilter restricts a listing to the children of one parent. The zero
// value applies no filter; ByParent with an empty ParentID selects
// root-level entities.
type ListFilter struct {
	ByParent bool
	ParentID string
}

// ----- documents -----

// CreateDocument carries the fields accepted when creating a document.
type CreateDocument struct {
	Title      string `json:"title"`
	ParentID   string `json:"parentId"`
	Icon       string `json:"icon"`
	CoverImage string `json:"coverImage"`
	Content    string `json:"content"`
}

// DocumentUpdate carries the optional fields of a partial document update.
// Nil pointers leave the corresponding field untouched; id, authorId and
// createdAt are immutable.
type DocumentUpdate struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Icon        *string   `json:"icon"`
	CoverImage  *string   `json:"coverImage"`
	ParentID    *string   `json:"parentId"`
	IsArchived  *bool     `json:"isArchived"`
	IsPublished *bool     `json:"isPublished"`
	IsFavorite  *bool     `json:"isFavorite"`
	Tags        *[]string `json:"tags"`
	SortOrder   *float64  `json:"sortOrder"`
}

// AddDocument creates a document owned by callerID. Title is required; a
// parent, when given, must resolve to a folder or document owned by the
// caller. Content defaults to the empty string and tags to an empty set.
func (s *TreeStore) AddDocument(callerID string, req CreateDocument) (model.Document, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Document{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ParentID != "" {
		if !s.parentExists(callerID, req.ParentID, true) {
			return model.Document{}, ErrNotFound
		}
	}

	now := time.Now().UTC()
	s.seq++
	d := &model.Document{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    req.Content,
		Icon:       req.Icon,
		CoverImage: req.CoverImage,
		ParentID:   req.ParentID,
		AuthorID:   callerID,
		Tags:       []string{},
		SortOrder:  float64(s.seq),
		Seq:        s.seq,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.docs[d.ID] = d
	return *d, nil
}

// GetDocument fetches a document owned by callerID. Absence and foreign
// ownership are indistinguishable.
func (s *TreeStore) GetDocument(callerID, id string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok || d.AuthorID != callerID {
		return model.Document{}, ErrNotFound
	}
	return copyDocument(d), nil
}

// ListDocuments returns the caller's documents, optionally restricted to
// one parent, ordered by (sortOrder, insertion sequence).
func (s *TreeStore) ListDocuments(callerID string, f ListFilter) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0)
	for _, d := range s.docs {
		if d.AuthorID != callerID {
			continue
		}
		if f.ByParent && d.ParentID != f.ParentID {
			continue
		}
		out = append(out, copyDocument(d))
	}
	sortDocuments(out)
	return out
}

// UpdateDocument applies a partial update. A provided parentId is
// re-validated for ownership and acyclicity; an empty one moves the
// document to root. UpdatedAt strictly increases on success. The second
// return value is the document as it was before the update, so callers can
// detect transitions such as isPublished flipping on. A failed update
// leaves the document untouched.
func (s *TreeStore) UpdateDocument(callerID, id string, upd DocumentUpdate) (model.Document, model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok || d.AuthorID != callerID {
		return model.Document{}, model.Document{}, ErrNotFound
	}

	// Validate every field before the first write: a partial update must
	// be all-or-nothing.
	title := d.Title
	if upd.Title != nil {
		title = strings.TrimSpace(*upd.Title)
		if title == "" {
			return model.Document{}, model.Document{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
	}
	if upd.ParentID != nil && *upd.ParentID != d.ParentID && *upd.ParentID != "" {
		if !s.parentExists(callerID, *upd.ParentID, true) {
			return model.Document{}, model.Document{}, ErrNotFound
		}
		if s.wouldCycle(id, *upd.ParentID) {
			return model.Document{}, model.Document{}, fmt.Errorf("%w: parent would create a cycle", ErrValidation)
		}
	}

	prior := copyDocument(d)
	d.Title = title
	if upd.ParentID != nil {
		d.ParentID = *upd.ParentID
	}
	if upd.Content != nil {
		d.Content = *upd.Content
	}
	if upd.Icon != nil {
		d.Icon = *upd.Icon
	}
	if upd.CoverImage != nil {
		d.CoverImage = *upd.CoverImage
	}
	if upd.IsArchived != nil {
		d.IsArchived = *upd.IsArchived
	}
	if upd.IsPublished != nil {
		d.IsPublished = *upd.IsPublished
	}
	if upd.IsFavorite != nil {
		d.IsFavorite = *upd.IsFavorite
	}
	if upd.Tags != nil {
		d.Tags = normalizeTags(*upd.Tags)
	}
	if upd.SortOrder != nil {
		d.SortOrder = *upd.SortOrder
	}
	d.UpdatedAt = nextTimestamp(d.UpdatedAt)
	return copyDocument(d), prior, nil
}

// DeleteDocument removes a document. Its direct children (documents nested
// under it) are re-parented to root rather than left dangling.
func (s *TreeStore) DeleteDocument(callerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok || d.AuthorID != callerID {
		return ErrNotFound
	}
	delete(s.docs, id)
	s.reparentChildren(id)
	return nil
}

// ----- folders -----

// CreateFolder carries the fields accepted when creating a folder.
type CreateFolder struct {
	Title    string `json:"title"`
	ParentID string `json:"parentId"`
	Icon     string `json:"icon"`
}

// FolderUpdate carries the optional fields of a partial folder update.
type FolderUpdate struct {
	Title      *string  `json:"title"`
	Icon       *string  `json:"icon"`
	ParentID   *string  `json:"parentId"`
	IsArchived *bool    `json:"isArchived"`
	IsFavorite *bool    `json:"isFavorite"`
	SortOrder  *float64 `json:"sortOrder"`
}

// AddFolder creates a folder owned by callerID. A parent, when given, must
// be a folder owned by the caller; documents cannot contain folders.
func (s *TreeStore) AddFolder(callerID string, req CreateFolder) (model.Folder, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Folder{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ParentID != "" {
		if !s.parentExists(callerID, req.ParentID, false) {
			return model.Folder{}, ErrNotFound
		}
	}

	now := time.Now().UTC()
	s.seq++
	f := &model.Folder{
		ID:        uuid.NewString(),
		Title:     title,
		Icon:      req.Icon,
		ParentID:  req.ParentID,
		AuthorID:  callerID,
		SortOrder: float64(s.seq),
		Seq:       s.seq,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.folders[f.ID] = f
	return *f, nil
}

// GetFolder fetches a folder owned by callerID.
func (s *TreeStore) GetFolder(callerID, id string) (model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folders[id]
	if !ok || f.AuthorID != callerID {
		return model.Folder{}, ErrNotFound
	}
	return *f, nil
}

// ListFolders returns the caller's folders, optionally restricted to one
// parent, ordered by (sortOrder, insertion sequence).
func (s *TreeStore) ListFolders(callerID string, f ListFilter) []model.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Folder, 0)
	for _, fl := range s.folders {
		if fl.AuthorID != callerID {
			continue
		}
		if f.ByParent && fl.ParentID != f.ParentID {
			continue
		}
		out = append(out, *fl)
	}
	sortFolders(out)
	return out
}

// UpdateFolder applies a partial update; see UpdateDocument. A failed
// update leaves the folder untouched.
func (s *TreeStore) UpdateFolder(callerID, id string, upd FolderUpdate) (model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok || f.AuthorID != callerID {
		return model.Folder{}, ErrNotFound
	}

	title := f.Title
	if upd.Title != nil {
		title = strings.TrimSpace(*upd.Title)
		if title == "" {
			return model.Folder{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
	}
	if upd.ParentID != nil && *upd.ParentID != f.ParentID && *upd.ParentID != "" {
		if !s.parentExists(callerID, *upd.ParentID, false) {
			return model.Folder{}, ErrNotFound
		}
		if s.wouldCycle(id, *upd.ParentID) {
			return model.Folder{}, fmt.Errorf("%w: parent would create a cycle", ErrValidation)
		}
	}

	f.Title = title
	if upd.ParentID != nil {
		f.ParentID = *upd.ParentID
	}
	if upd.Icon != nil {
		f.Icon = *upd.Icon
	}
	if upd.IsArchived != nil {
		f.IsArchived = *upd.IsArchived
	}
	if upd.IsFavorite != nil {
		f.IsFavorite = *upd.IsFavorite
	}
	if upd.SortOrder != nil {
		f.SortOrder = *upd.SortOrder
	}
	f.UpdatedAt = nextTimestamp(f.UpdatedAt)
	return *f, nil
}

// DeleteFolder removes a folder and re-parents its direct children
// (documents and folders) to root.
func (s *TreeStore) DeleteFolder(callerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok || f.AuthorID != callerID {
		return ErrNotFound
	}
	delete(s.folders, id)
	s.reparentChildren(id)
	return nil
}

// ----- internals (callers hold s.mu) -----

// parentExists reports whether parentID resolves to an entity owned by
// callerID that may act as a parent. allowDocument permits document
// parents (document nesting); folders only ever nest under folders.
func (s *TreeStore) parentExists(callerID, parentID string, allowDocument bool) bool {
	if f, ok := s.folders[parentID]; ok {
		return f.AuthorID == callerID
	}
	if allowDocument {
		if d, ok := s.docs[parentID]; ok {
			return d.AuthorID == callerID
		}
	}
	return false
}

// wouldCycle reports whether attaching entity id under parentID would make
// the entity its own ancestor. Walks the parent chain from parentID; the
// iteration bound guards against pre-existing corruption.
func (s *TreeStore) wouldCycle(id, parentID string) bool {
	cur := parentID
	for steps := len(s.docs) + len(s.folders); cur != "" && steps >= 0; steps-- {
		if cur == id {
			return true
		}
		if d, ok := s.docs[cur]; ok {
			cur = d.ParentID
			continue
		}
		if f, ok := s.folders[cur]; ok {
			cur = f.ParentID
			continue
		}
		break
	}
	return false
}

// reparentChildren moves every direct child of the deleted entity to root.
func (s *TreeStore) reparentChildren(deletedID string) {
	for _, d := range s.docs {
		if d.ParentID == deletedID {
			d.ParentID = ""
			d.UpdatedAt = nextTimestamp(d.UpdatedAt)
		}
	}
	for _, f := range s.folders {
		if f.ParentID == deletedID {
			f.ParentID = ""
			f.UpdatedAt = nextTimestamp(f.UpdatedAt)
		}
	}
}

func copyDocument(d *model.Document) model.Document {
	out := *d
	out.Tags = append([]string(nil), d.Tags...)
	return out
}

// normalizeTags trims entries, drops empties and deduplicates while
// preserving first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func sortDocuments(docs []model.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].SortOrder != docs[j].SortOrder {
			return docs[i].SortOrder < docs[j].SortOrder
		}
		return docs[i].Seq < docs[j].Seq
	})
}

func sortFolders(folders []model.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].SortOrder != folders[j].SortOrder {
			return folders[i].SortOrder < folders[j].SortOrder
		}
		return folders[i].Seq < folders[j].Seq
	})
}
