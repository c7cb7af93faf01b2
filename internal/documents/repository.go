package documents

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/tags"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

type repo struct {
	db *sql.DB
}

// NewRepository creates a Postgres-backed Repository.
func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, doc Document, tagNames []string, tagIDs []uuid.UUID) (*Document, error) {
	q := `INSERT INTO documents
		(id, name, description, filename, content_type, size_bytes, page_count, checksum, storage_key, folder_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		` + returning

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		d, err := repository.QueryOne(ctx, tx, q, []any{
			doc.ID, doc.Name, doc.Description, doc.Filename, doc.ContentType, doc.SizeBytes,
			doc.PageCount, doc.Checksum, doc.StorageKey, doc.FolderID, doc.OwnerID,
		}, scanDocument)
		if err != nil {
			return Document{}, err
		}

		if err := access.SeedOwner(ctx, tx, access.DocumentRef(d.ID), d.OwnerID); err != nil {
			return Document{}, err
		}

		for _, name := range tagNames {
			name = tags.Normalize(name)
			if name == "" {
				continue
			}
			t, err := tags.Ensure(ctx, tx, name)
			if err != nil {
				return Document{}, fmt.Errorf("ensure tag %q: %w", name, err)
			}
			if err := tags.Link(ctx, tx, d.ID, t.ID); err != nil {
				return Document{}, err
			}
		}
		for _, id := range tagIDs {
			if err := tags.Link(ctx, tx, d.ID, id); err != nil {
				return Document{}, err
			}
		}

		d.Tags, err = tags.ForDocument(ctx, tx, d.ID)
		return d, err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereClause("NOT d.is_deleted").
		BuildSingle("ID", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, mapError(err)
	}

	if doc.Tags, err = tags.ForDocument(ctx, r.db, doc.ID); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return &doc, nil
}

func (r *repo) List(ctx context.Context, viewer access.Viewer, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereClause("NOT d.is_deleted").
		WhereSearch(page.Search, "Name", "Filename", "Description")

	if !viewer.Admin {
		qb.WhereClause(`(d.owner_id = $%d OR EXISTS (
			SELECT 1 FROM accessibility_list_items i
			JOIN accessibility_lists l ON l.id = i.list_id
			WHERE l.document_id = d.id AND i.user_id = $%d AND i.can_view))`,
			viewer.UserID, viewer.UserID)
	}

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	if err := r.attachTags(ctx, docs); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) attachTags(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]any, len(docs))
	index := make(map[uuid.UUID]int, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		index[d.ID] = i
		docs[i].Tags = []tags.Tag{}
	}

	q := fmt.Sprintf(`SELECT dt.document_id, t.id, t.name, t.created_at
		FROM document_tags dt JOIN tags t ON t.id = dt.tag_id
		WHERE dt.document_id IN (%s)
		ORDER BY t.name`, numbered(len(ids)))

	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID uuid.UUID
		var t tags.Tag
		if err := rows.Scan(&docID, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[docID]; ok {
			docs[i].Tags = append(docs[i].Tags, t)
		}
	}
	return rows.Err()
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error) {
	q := `UPDATE documents SET name = $1, description = $2, version = version + 1, updated_at = now()
		WHERE id = $3 AND NOT is_deleted
		` + returning

	return r.modify(ctx, q, cmd.Name, cmd.Description, id)
}

func (r *repo) Move(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) (*Document, error) {
	q := `UPDATE documents SET folder_id = $1, updated_at = now()
		WHERE id = $2 AND NOT is_deleted
		` + returning

	return r.modify(ctx, q, folderID, id)
}

func (r *repo) modify(ctx context.Context, q string, args ...any) (*Document, error) {
	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		d, err := repository.QueryOne(ctx, tx, q, args, scanDocument)
		if err != nil {
			return Document{}, err
		}
		d.Tags, err = tags.ForDocument(ctx, tx, d.ID)
		return d, err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &doc, nil
}

func (r *repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx,
			`UPDATE documents SET is_deleted = true, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	})
	return mapError(err)
}

func mapError(err error) error {
	switch repository.ConstraintName(err) {
	case "documents_folder_id_fkey":
		return ErrFolderMissing
	case "document_tags_tag_id_fkey":
		return tags.ErrNotFound
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func numbered(n int) string {
	s := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += ", "
		}
		s += fmt.Sprintf("$%d", i)
	}
	return s
}
