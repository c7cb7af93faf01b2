package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/documents"
	"github.com/JaimeStill/docman/internal/tags"
	"github.com/JaimeStill/docman/pkg/pagination"
)

type documentRepo struct {
	s *Store
}

func (r documentRepo) Create(ctx context.Context, doc documents.Document, tagNames []string, tagIDs []uuid.UUID) (*documents.Document, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.FolderID != nil {
		if _, ok := s.folders[*doc.FolderID]; !ok {
			return nil, documents.ErrFolderMissing
		}
	}
	for _, id := range tagIDs {
		if _, ok := s.tags[id]; !ok {
			return nil, tags.ErrNotFound
		}
	}
	for _, d := range s.documents {
		if d.ID == doc.ID || d.StorageKey == doc.StorageKey {
			return nil, documents.ErrDuplicate
		}
	}

	now := s.now()
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Tags = nil
	s.documents[doc.ID] = &document{Document: doc}
	s.seedOwner(access.DocumentRef(doc.ID), doc.OwnerID)

	var linked []uuid.UUID
	for _, name := range tagNames {
		if name = tags.Normalize(name); name != "" {
			linked = append(linked, s.ensureTag(name).ID)
		}
	}
	linked = append(linked, tagIDs...)
	slices.SortFunc(linked, func(a, b uuid.UUID) int { return cmp.Compare(a.String(), b.String()) })
	s.docTags[doc.ID] = slices.Compact(linked)

	return s.documentView(doc.ID), nil
}

// documentView copies a stored document with its tags. Callers hold s.mu.
func (s *Store) documentView(id uuid.UUID) *documents.Document {
	d := s.documents[id].Document
	d.Tags = s.tagsFor(id)
	return &d
}

func (r documentRepo) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok || d.deleted {
		return nil, documents.ErrNotFound
	}
	return s.documentView(id), nil
}

func (r documentRepo) List(ctx context.Context, viewer access.Viewer, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []documents.Document
	for id, d := range s.documents {
		if d.deleted || !s.visible(viewer, access.DocumentRef(id), d.OwnerID) {
			continue
		}
		if !contains(d.Name, page.Search) && !contains(d.Filename, page.Search) && !contains(d.Description, page.Search) {
			continue
		}
		if !contains(d.Name, filters.Name) || !contains(d.ContentType, filters.ContentType) {
			continue
		}
		if filters.FolderID != nil && (d.FolderID == nil || *d.FolderID != *filters.FolderID) {
			continue
		}
		if filters.Root && d.FolderID != nil {
			continue
		}
		if !hasAll(s.docTags[id], filters.TagIDs) {
			continue
		}
		items = append(items, *s.documentView(id))
	}

	slices.SortFunc(items, func(a, b documents.Document) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.Name, b.Name))
	})
	return paginate(items, page), nil
}

func hasAll(have, want []uuid.UUID) bool {
	for _, id := range want {
		if !slices.Contains(have, id) {
			return false
		}
	}
	return true
}

func (r documentRepo) Update(ctx context.Context, id uuid.UUID, cmd documents.UpdateCommand) (*documents.Document, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok || d.deleted {
		return nil, documents.ErrNotFound
	}

	d.Name = cmd.Name
	d.Description = cmd.Description
	d.Version++
	d.UpdatedAt = s.now()
	return s.documentView(id), nil
}

func (r documentRepo) Move(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) (*documents.Document, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok || d.deleted {
		return nil, documents.ErrNotFound
	}
	if folderID != nil {
		if _, ok := s.folders[*folderID]; !ok {
			return nil, documents.ErrFolderMissing
		}
	}

	d.FolderID = folderID
	d.UpdatedAt = s.now()
	return s.documentView(id), nil
}

func (r documentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok || d.deleted {
		return documents.ErrNotFound
	}

	d.deleted = true
	d.UpdatedAt = s.now()
	return nil
}
