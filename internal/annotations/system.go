package annotations

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/repository"
)

type System interface {
	Create(ctx context.Context, actor, documentID uuid.UUID, cmd CreateCommand) (*Annotation, error)
	List(ctx context.Context, actor, documentID uuid.UUID) ([]Annotation, error)

	// Delete is allowed for the author or anyone who can edit the document.
	Delete(ctx context.Context, actor, documentID, id uuid.UUID) error
}

type repo struct {
	db     *sql.DB
	acl    access.System
	logger *slog.Logger
}

func New(db *sql.DB, acl access.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		acl:    acl,
		logger: logger.With("system", "annotations"),
	}
}

const columns = `id, document_id, author_id, page, content, x, y, created_at`

func scanAnnotation(s repository.Scanner) (Annotation, error) {
	var a Annotation
	err := s.Scan(&a.ID, &a.DocumentID, &a.AuthorID, &a.Page, &a.Content, &a.X, &a.Y, &a.CreatedAt)
	return a, err
}

func (r *repo) Create(ctx context.Context, actor, documentID uuid.UUID, cmd CreateCommand) (*Annotation, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	if err := r.acl.Authorize(ctx, access.DocumentRef(documentID), actor, access.PermAnnotate); err != nil {
		return nil, err
	}

	q := `INSERT INTO annotations (id, document_id, author_id, page, content, x, y)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + columns

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Annotation, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), documentID, actor, cmd.Page, cmd.Content, cmd.X, cmd.Y,
		}, scanAnnotation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, err)
	}

	r.logger.Info("annotation created", "id", a.ID, "document_id", documentID, "author_id", actor)
	return &a, nil
}

func (r *repo) List(ctx context.Context, actor, documentID uuid.UUID) ([]Annotation, error) {
	if err := r.acl.Authorize(ctx, access.DocumentRef(documentID), actor, access.PermView); err != nil {
		return nil, err
	}

	return repository.QueryMany(ctx, r.db,
		`SELECT `+columns+` FROM annotations WHERE document_id = $1 ORDER BY page, created_at`,
		[]any{documentID}, scanAnnotation)
}

func (r *repo) Delete(ctx context.Context, actor, documentID, id uuid.UUID) error {
	ref := access.DocumentRef(documentID)
	if err := r.acl.Authorize(ctx, ref, actor, access.PermView); err != nil {
		return err
	}

	a, err := repository.QueryOne(ctx, r.db,
		`SELECT `+columns+` FROM annotations WHERE id = $1 AND document_id = $2`,
		[]any{id, documentID}, scanAnnotation)
	if err != nil {
		return repository.MapError(err, ErrNotFound, err)
	}

	if a.AuthorID != actor {
		if err := r.acl.Authorize(ctx, ref, actor, access.PermEdit); err != nil {
			return err
		}
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM annotations WHERE id = $1`, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, err)
	}

	r.logger.Info("annotation deleted", "id", id, "document_id", documentID, "actor", actor)
	return nil
}
