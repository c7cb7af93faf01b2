package folders

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/pagination"
)

type service struct {
	repo       Repository
	acl        access.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the folder system.
func New(repo Repository, acl access.System, logger *slog.Logger, pagination pagination.Config) System {
	return &service{
		repo:       repo,
		acl:        acl,
		logger:     logger.With("system", "folders"),
		pagination: pagination,
	}
}

func (s *service) Create(ctx context.Context, actor uuid.UUID, cmd CreateCommand) (*Folder, error) {
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}

	if cmd.ParentID != nil {
		if err := s.acl.Authorize(ctx, access.FolderRef(*cmd.ParentID), actor, access.PermEdit); err != nil {
			return nil, err
		}
	}

	f, err := s.repo.Create(ctx, Folder{
		ID:          uuid.New(),
		Name:        cmd.Name,
		Description: cmd.Description,
		ParentID:    cmd.ParentID,
		OwnerID:     actor,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "id", f.ID, "name", f.Name, "parent_id", f.ParentID, "owner_id", actor)
	return f, nil
}

func (s *service) Find(ctx context.Context, actor, id uuid.UUID) (*Folder, error) {
	if err := s.acl.Authorize(ctx, access.FolderRef(id), actor, access.PermView); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, id)
}

func (s *service) List(ctx context.Context, actor uuid.UUID, parentID *uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Folder], error) {
	page.Normalize(s.pagination)

	if parentID != nil {
		if err := s.acl.Authorize(ctx, access.FolderRef(*parentID), actor, access.PermView); err != nil {
			return nil, err
		}
	}

	admin, err := s.acl.IsAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, access.Viewer{UserID: actor, Admin: admin}, parentID, page)
}

func (s *service) Update(ctx context.Context, actor, id uuid.UUID, cmd UpdateCommand) (*Folder, error) {
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.acl.Authorize(ctx, access.FolderRef(id), actor, access.PermEdit); err != nil {
		return nil, err
	}

	current, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Name = cmd.Name
	next.Description = cmd.Description

	reparent := cmd.SetParent && !sameParent(current.ParentID, cmd.ParentID)
	if reparent {
		if cmd.ParentID != nil {
			if *cmd.ParentID == id {
				return nil, ErrSelfParent
			}
			if err := s.acl.Authorize(ctx, access.FolderRef(*cmd.ParentID), actor, access.PermEdit); err != nil {
				return nil, err
			}
		}
		next.ParentID = cmd.ParentID
	}

	updated, err := s.repo.Update(ctx, next, reparent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "id", id, "name", updated.Name, "parent_id", updated.ParentID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if err := s.acl.Authorize(ctx, access.FolderRef(id), actor, access.PermDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "actor", actor)
	return nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
