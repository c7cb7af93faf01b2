package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/storage"
)

type service struct {
	repo       Repository
	blobs      storage.System
	acl        access.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the document system. Blobs are written before metadata and
// removed again when the metadata write fails.
func New(repo Repository, blobs storage.System, acl access.System, logger *slog.Logger, pagination pagination.Config) System {
	return &service{
		repo:       repo,
		blobs:      blobs,
		acl:        acl,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (s *service) Upload(ctx context.Context, actor uuid.UUID, cmd UploadCommand) (*Document, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}
	if cmd.Name == "" {
		cmd.Name = cmd.Filename
	}
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}

	if cmd.FolderID != nil {
		if err := s.acl.Authorize(ctx, access.FolderRef(*cmd.FolderID), actor, access.PermEdit); err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	doc := Document{
		ID:          id,
		Name:        cmd.Name,
		Description: cmd.Description,
		Filename:    cmd.Filename,
		ContentType: detectContentType(cmd.ContentType, cmd.Data),
		SizeBytes:   int64(len(cmd.Data)),
		Checksum:    Checksum(cmd.Data),
		StorageKey:  buildStorageKey(id, cmd.Filename),
		FolderID:    cmd.FolderID,
		OwnerID:     actor,
	}

	if doc.ContentType == contentTypePDF {
		pages, err := pdfPageCount(cmd.Data)
		if err != nil {
			s.logger.Warn("failed to extract pdf page count", "error", err)
		} else {
			doc.PageCount = pages
		}
	}

	if err := s.blobs.Store(ctx, doc.StorageKey, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	created, err := s.repo.Create(ctx, doc, cmd.TagNames, cmd.TagIDs)
	if err != nil {
		s.discard(ctx, doc.StorageKey)
		return nil, err
	}

	s.logger.Info("document uploaded",
		"id", created.ID,
		"name", created.Name,
		"owner_id", actor,
		"size_bytes", created.SizeBytes)
	return created, nil
}

func (s *service) Find(ctx context.Context, actor, id uuid.UUID) (*Document, error) {
	if err := s.acl.Authorize(ctx, access.DocumentRef(id), actor, access.PermView); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, id)
}

func (s *service) Download(ctx context.Context, actor, id uuid.UUID) (*Document, []byte, error) {
	if err := s.acl.Authorize(ctx, access.DocumentRef(id), actor, access.PermDownload); err != nil {
		return nil, nil, err
	}

	doc, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Retrieve(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve content: %w", err)
	}
	return doc, data, nil
}

func (s *service) List(ctx context.Context, actor uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(s.pagination)

	admin, err := s.acl.IsAdmin(ctx, actor)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, access.Viewer{UserID: actor, Admin: admin}, page, filters)
}

func (s *service) Update(ctx context.Context, actor, id uuid.UUID, cmd UpdateCommand) (*Document, error) {
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}
	if err := s.acl.Authorize(ctx, access.DocumentRef(id), actor, access.PermEdit); err != nil {
		return nil, err
	}

	doc, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "id", doc.ID, "name", doc.Name, "version", doc.Version)
	return doc, nil
}

// Delete marks the document deleted. Content and grants are retained.
func (s *service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if err := s.acl.Authorize(ctx, access.DocumentRef(id), actor, access.PermDelete); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "actor", actor)
	return nil
}

func (s *service) Move(ctx context.Context, actor, id uuid.UUID, cmd MoveCommand) (*Document, error) {
	if err := s.authorizeTransfer(ctx, actor, id, cmd.FolderID); err != nil {
		return nil, err
	}

	doc, err := s.repo.Move(ctx, id, cmd.FolderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document moved", "id", id, "folder_id", cmd.FolderID)
	return doc, nil
}

// Copy duplicates content, metadata and tags. The copy belongs to actor
// and starts with a fresh accessibility list.
func (s *service) Copy(ctx context.Context, actor, id uuid.UUID, cmd CopyCommand) (*Document, error) {
	if err := s.authorizeTransfer(ctx, actor, id, cmd.FolderID); err != nil {
		return nil, err
	}

	src, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	copyID := uuid.New()
	doc := *src
	doc.ID = copyID
	doc.StorageKey = buildStorageKey(copyID, src.Filename)
	doc.FolderID = cmd.FolderID
	doc.OwnerID = actor
	if cmd.Name != "" {
		doc.Name = cmd.Name
	}

	tagIDs := make([]uuid.UUID, len(src.Tags))
	for i, t := range src.Tags {
		tagIDs[i] = t.ID
	}

	if err := s.blobs.Copy(ctx, src.StorageKey, doc.StorageKey); err != nil {
		return nil, fmt.Errorf("copy content: %w", err)
	}

	if err := s.verify(ctx, doc.StorageKey, src.Checksum); err != nil {
		s.discard(ctx, doc.StorageKey)
		return nil, err
	}

	created, err := s.repo.Create(ctx, doc, nil, tagIDs)
	if err != nil {
		s.discard(ctx, doc.StorageKey)
		return nil, err
	}

	s.logger.Info("document copied", "source_id", id, "id", created.ID, "owner_id", actor)
	return created, nil
}

// authorizeTransfer requires edit on the document and, for a target
// folder, view and edit on the folder.
func (s *service) authorizeTransfer(ctx context.Context, actor, id uuid.UUID, folderID *uuid.UUID) error {
	if err := s.acl.Authorize(ctx, access.DocumentRef(id), actor, access.PermEdit); err != nil {
		return err
	}
	if folderID == nil {
		return nil
	}

	folder := access.FolderRef(*folderID)
	if err := s.acl.Authorize(ctx, folder, actor, access.PermView); err != nil {
		return err
	}
	return s.acl.Authorize(ctx, folder, actor, access.PermEdit)
}

func (s *service) verify(ctx context.Context, key, checksum string) error {
	data, err := s.blobs.Retrieve(ctx, key)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if checksum != "" && Checksum(data) != checksum {
		return ErrCorruptCopy
	}
	return nil
}

// discard removes an orphaned blob. It ignores ctx cancellation so a
// cancelled request still cleans up.
func (s *service) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("cleanup failed after metadata error", "storage_key", key, "error", err)
	}
}
