package folders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
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

func (r *repo) Create(ctx context.Context, f Folder) (*Folder, error) {
	q := `INSERT INTO folders (id, name, description, parent_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		` + returning

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Folder, error) {
		folder, err := repository.QueryOne(ctx, tx, q, []any{f.ID, f.Name, f.Description, f.ParentID, f.OwnerID}, scanFolder)
		if err != nil {
			return Folder{}, err
		}
		return folder, access.SeedOwner(ctx, tx, access.FolderRef(folder.ID), folder.OwnerID)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Folder, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFolder)
	if err != nil {
		return nil, mapError(err)
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, viewer access.Viewer, parentID *uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Folder], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	if parentID != nil {
		qb.WhereEquals("ParentID", *parentID)
	} else {
		qb.WhereNull("ParentID")
	}

	if !viewer.Admin {
		qb.WhereClause(`(f.owner_id = $%d OR EXISTS (
			SELECT 1 FROM accessibility_list_items i
			JOIN accessibility_lists l ON l.id = i.list_id
			WHERE l.folder_id = f.id AND i.user_id = $%d AND i.can_view))`,
			viewer.UserID, viewer.UserID)
	}

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFolder)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// ancestorQuery reports whether $2 appears on the parent chain starting at $1.
const ancestorQuery = `
WITH RECURSIVE chain AS (
	SELECT id, parent_id FROM folders WHERE id = $1
	UNION
	SELECT f.id, f.parent_id FROM folders f JOIN chain c ON f.id = c.parent_id
)
SELECT EXISTS (SELECT 1 FROM chain WHERE id = $2)`

func (r *repo) Update(ctx context.Context, f Folder, reparent bool) (*Folder, error) {
	q := `UPDATE folders SET name = $1, description = $2, parent_id = $3, updated_at = now()
		WHERE id = $4
		` + returning

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Folder, error) {
		if reparent && f.ParentID != nil {
			// Serialize concurrent reparenting so two moves cannot jointly form a cycle.
			if _, err := tx.ExecContext(ctx, `LOCK TABLE folders IN SHARE ROW EXCLUSIVE MODE`); err != nil {
				return Folder{}, err
			}

			var cycle bool
			if err := tx.QueryRowContext(ctx, ancestorQuery, *f.ParentID, f.ID).Scan(&cycle); err != nil {
				return Folder{}, err
			}
			if cycle {
				return Folder{}, ErrCycle
			}
		}
		return repository.QueryOne(ctx, tx, q, []any{f.Name, f.Description, f.ParentID, f.ID}, scanFolder)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var occupied bool
		err := tx.QueryRowContext(ctx, `SELECT
			EXISTS (SELECT 1 FROM folders WHERE parent_id = $1) OR
			EXISTS (SELECT 1 FROM documents WHERE folder_id = $1 AND NOT is_deleted)`, id,
		).Scan(&occupied)
		if err != nil {
			return struct{}{}, err
		}
		if occupied {
			return struct{}{}, ErrNotEmpty
		}

		// Soft-deleted documents keep their rows but no longer hold the folder.
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET folder_id = NULL WHERE folder_id = $1 AND is_deleted`, id,
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM folders WHERE id = $1`, id)
	})
	if repository.IsForeignKeyViolation(err) {
		return ErrNotEmpty
	}
	return mapError(err)
}

func mapError(err error) error {
	switch repository.ConstraintName(err) {
	case "folders_parent_id_fkey":
		return ErrParentMissing
	case "folders_parent_not_self":
		return ErrSelfParent
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
