package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/folders"
	"github.com/JaimeStill/docman/pkg/pagination"
)

type folderRepo struct {
	s *Store
}

func (r folderRepo) Create(ctx context.Context, f folders.Folder) (*folders.Folder, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[f.ID]; ok {
		return nil, folders.ErrDuplicate
	}
	if f.ParentID != nil {
		if *f.ParentID == f.ID {
			return nil, folders.ErrSelfParent
		}
		if _, ok := s.folders[*f.ParentID]; !ok {
			return nil, folders.ErrParentMissing
		}
	}

	now := s.now()
	f.CreatedAt = now
	f.UpdatedAt = now
	s.folders[f.ID] = f
	s.seedOwner(access.FolderRef(f.ID), f.OwnerID)
	return &f, nil
}

func (r folderRepo) Find(ctx context.Context, id uuid.UUID) (*folders.Folder, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, folders.ErrNotFound
	}
	return &f, nil
}

func (r folderRepo) List(ctx context.Context, viewer access.Viewer, parentID *uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[folders.Folder], error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []folders.Folder
	for id, f := range s.folders {
		if parentID == nil && f.ParentID != nil {
			continue
		}
		if parentID != nil && (f.ParentID == nil || *f.ParentID != *parentID) {
			continue
		}
		if !s.visible(viewer, access.FolderRef(id), f.OwnerID) {
			continue
		}
		if !contains(f.Name, page.Search) && !contains(f.Description, page.Search) {
			continue
		}
		items = append(items, f)
	}

	slices.SortFunc(items, func(a, b folders.Folder) int { return cmp.Compare(a.Name, b.Name) })
	return paginate(items, page), nil
}

func (r folderRepo) Update(ctx context.Context, f folders.Folder, reparent bool) (*folders.Folder, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.folders[f.ID]
	if !ok {
		return nil, folders.ErrNotFound
	}

	if reparent && f.ParentID != nil {
		if _, ok := s.folders[*f.ParentID]; !ok {
			return nil, folders.ErrParentMissing
		}
		for cursor := f.ParentID; cursor != nil; cursor = s.folders[*cursor].ParentID {
			if *cursor == f.ID {
				return nil, folders.ErrCycle
			}
		}
	}

	current.Name = f.Name
	current.Description = f.Description
	current.ParentID = f.ParentID
	current.UpdatedAt = s.now()
	s.folders[f.ID] = current
	return &current, nil
}

func (r folderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return folders.ErrNotFound
	}

	for _, f := range s.folders {
		if f.ParentID != nil && *f.ParentID == id {
			return folders.ErrNotEmpty
		}
	}
	for _, d := range s.documents {
		if !d.deleted && d.FolderID != nil && *d.FolderID == id {
			return folders.ErrNotEmpty
		}
	}

	for _, d := range s.documents {
		if d.FolderID != nil && *d.FolderID == id {
			d.FolderID = nil
		}
	}
	delete(s.folders, id)
	delete(s.lists, access.FolderRef(id))
	return nil
}
