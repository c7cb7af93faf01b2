// Package memstore holds users, groups, folders, documents, tags and
// accessibility lists in memory. It implements access.Store together with
// the document and folder repositories over one shared dataset, with the
// same optimistic-concurrency behavior as the Postgres stores. It backs
// service tests and local experiments; it is not durable.
package memstore

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/documents"
	"github.com/JaimeStill/docman/internal/folders"
	"github.com/JaimeStill/docman/internal/tags"
	"github.com/JaimeStill/docman/internal/users"
	"github.com/JaimeStill/docman/pkg/pagination"
)

type list struct {
	id      uuid.UUID
	version int64
	items   map[uuid.UUID]access.Flags
}

type document struct {
	documents.Document
	deleted bool
}

// Store is the shared in-memory dataset.
type Store struct {
	mu sync.Mutex

	users     map[uuid.UUID]users.User
	groups    map[uuid.UUID]string
	members   map[uuid.UUID][]uuid.UUID
	folders   map[uuid.UUID]folders.Folder
	documents map[uuid.UUID]*document
	tags      map[uuid.UUID]tags.Tag
	docTags   map[uuid.UUID][]uuid.UUID
	lists     map[access.Ref]*list

	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]users.User),
		groups:    make(map[uuid.UUID]string),
		members:   make(map[uuid.UUID][]uuid.UUID),
		folders:   make(map[uuid.UUID]folders.Folder),
		documents: make(map[uuid.UUID]*document),
		tags:      make(map[uuid.UUID]tags.Tag),
		docTags:   make(map[uuid.UUID][]uuid.UUID),
		lists:     make(map[access.Ref]*list),
		now:       time.Now,
	}
}

// Documents returns the document repository view of s.
func (s *Store) Documents() documents.Repository { return documentRepo{s} }

// Folders returns the folder repository view of s.
func (s *Store) Folders() folders.Repository { return folderRepo{s} }

// AddUser registers a user and returns its ID.
func (s *Store) AddUser(username string, role users.Role) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.users[id] = users.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		CreatedAt: s.now(),
	}
	return id
}

// AddGroup registers an empty group and returns its ID.
func (s *Store) AddGroup(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.groups[id] = name
	s.members[id] = nil
	return id
}

// AddMember appends userID to the group roster if absent.
func (s *Store) AddMember(groupID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.members[groupID], userID) {
		s.members[groupID] = append(s.members[groupID], userID)
	}
}

// RemoveMember drops userID from the group roster.
func (s *Store) RemoveMember(groupID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[groupID] = slices.DeleteFunc(s.members[groupID], func(id uuid.UUID) bool {
		return id == userID
	})
}

// Version returns the committed version of ref's list, or -1 when no list exists.
func (s *Store) Version(ref access.Ref) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.lists[ref]; ok {
		return l.version
	}
	return -1
}

// seedOwner creates ref's list with an Owner item. Callers hold s.mu.
func (s *Store) seedOwner(ref access.Ref, ownerID uuid.UUID) {
	s.lists[ref] = &list{
		id:    uuid.New(),
		items: map[uuid.UUID]access.Flags{ownerID: access.All()},
	}
}

func (s *Store) resource(ref access.Ref) (*access.Resource, error) {
	switch ref.Kind {
	case access.KindDocument:
		d, ok := s.documents[ref.ID]
		if !ok || d.deleted {
			return nil, access.ErrNotFound
		}
		return &access.Resource{Ref: ref, OwnerID: d.OwnerID, Name: d.Name}, nil
	case access.KindFolder:
		f, ok := s.folders[ref.ID]
		if !ok {
			return nil, access.ErrNotFound
		}
		return &access.Resource{Ref: ref, OwnerID: f.OwnerID, Name: f.Name}, nil
	default:
		return nil, access.ErrInvalidKind
	}
}

func (s *Store) tagsFor(docID uuid.UUID) []tags.Tag {
	result := make([]tags.Tag, 0, len(s.docTags[docID]))
	for _, id := range s.docTags[docID] {
		result = append(result, s.tags[id])
	}
	slices.SortFunc(result, func(a, b tags.Tag) int { return cmp.Compare(a.Name, b.Name) })
	return result
}

func (s *Store) ensureTag(name string) tags.Tag {
	for _, t := range s.tags {
		if t.Name == name {
			return t
		}
	}
	t := tags.Tag{ID: uuid.New(), Name: name, CreatedAt: s.now()}
	s.tags[t.ID] = t
	return t
}

// AddTag registers a tag and returns it.
func (s *Store) AddTag(name string) tags.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureTag(tags.Normalize(name))
}

// visible reports whether viewer may list ref. Callers hold s.mu.
func (s *Store) visible(viewer access.Viewer, ref access.Ref, ownerID uuid.UUID) bool {
	if viewer.Admin || ownerID == viewer.UserID {
		return true
	}
	l, ok := s.lists[ref]
	return ok && l.items[viewer.UserID].CanView
}

func contains(haystack string, needle *string) bool {
	if needle == nil || *needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(*needle))
}

func paginate[T any](items []T, page pagination.PageRequest) *pagination.PageResult[T] {
	result := pagination.Slice(items, page)
	return &result
}
