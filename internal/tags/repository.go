package tags

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

type repo struct {
	db         *sql.DB
	acl        access.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a Postgres-backed tag system.
func New(db *sql.DB, acl access.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		acl:        acl,
		logger:     logger.With("system", "tags"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Tag], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTag)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Tag, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTag)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Tag, error) {
	name := Normalize(cmd.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Tag, error) {
		return Ensure(ctx, tx, name)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("tag ensured", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Tag, error) {
	name := Normalize(cmd.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	q := `UPDATE tags SET name = $1 WHERE id = $2 RETURNING id, name, created_at`

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Tag, error) {
		return repository.QueryOne(ctx, tx, q, []any{name, id}, scanTag)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tag renamed", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM tags WHERE id = $1`, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tag deleted", "id", id)
	return nil
}

func (r *repo) ForDocument(ctx context.Context, actor, documentID uuid.UUID) ([]Tag, error) {
	if err := r.acl.Authorize(ctx, access.DocumentRef(documentID), actor, access.PermView); err != nil {
		return nil, err
	}
	return ForDocument(ctx, r.db, documentID)
}

func (r *repo) Attach(ctx context.Context, actor, documentID, tagID uuid.UUID) error {
	if err := r.acl.Authorize(ctx, access.DocumentRef(documentID), actor, access.PermEdit); err != nil {
		return err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, Link(ctx, tx, documentID, tagID)
	})
	if repository.IsForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	r.logger.Info("tag attached", "document_id", documentID, "tag_id", tagID)
	return nil
}

func (r *repo) Detach(ctx context.Context, actor, documentID, tagID uuid.UUID) error {
	if err := r.acl.Authorize(ctx, access.DocumentRef(documentID), actor, access.PermEdit); err != nil {
		return err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM document_tags WHERE document_id = $1 AND tag_id = $2`,
			documentID, tagID)
		return struct{}{}, err
	})
	if err != nil {
		return err
	}

	r.logger.Info("tag detached", "document_id", documentID, "tag_id", tagID)
	return nil
}

func (r *repo) Replace(ctx context.Context, actor, documentID uuid.UUID, tagIDs []uuid.UUID) ([]Tag, error) {
	if err := r.acl.Authorize(ctx, access.DocumentRef(documentID), actor, access.PermEdit); err != nil {
		return nil, err
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Tag, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_tags WHERE document_id = $1`, documentID); err != nil {
			return nil, err
		}
		for _, id := range tagIDs {
			if err := Link(ctx, tx, documentID, id); err != nil {
				return nil, err
			}
		}
		return ForDocument(ctx, tx, documentID)
	})
	if repository.IsForeignKeyViolation(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("document tags replaced", "document_id", documentID, "count", len(result))
	return result, nil
}

// Ensure returns the tag named name, creating it if needed. name must
// already be normalized.
func Ensure(ctx context.Context, tx *sql.Tx, name string) (Tag, error) {
	q := `INSERT INTO tags (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`
	return repository.QueryOne(ctx, tx, q, []any{uuid.New(), name}, scanTag)
}

// Link attaches a tag to a document. Existing links are kept.
func Link(ctx context.Context, tx *sql.Tx, documentID, tagID uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO document_tags (document_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		documentID, tagID)
	return err
}

// ForDocument returns the tags attached to a document ordered by name.
func ForDocument(ctx context.Context, q repository.Querier, documentID uuid.UUID) ([]Tag, error) {
	return repository.QueryMany(ctx, q,
		`SELECT t.id, t.name, t.created_at
		FROM tags t JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY t.name`,
		[]any{documentID}, scanTag)
}
