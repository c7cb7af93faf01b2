package groups

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/query"
	"github.com/JaimeStill/docman/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a Postgres-backed group system.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "groups"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Group], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count groups: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanGroup)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Group, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	g, err := repository.QueryOne(ctx, r.db, q, args, scanGroup)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Group, error) {
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}

	q := `INSERT INTO groups (id, name, description, can_create, can_read, can_update, can_delete, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		` + returning

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Group, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), cmd.Name, cmd.Description,
			cmd.CanCreate, cmd.CanRead, cmd.CanUpdate, cmd.CanDelete, cmd.IsAdmin,
		}, scanGroup)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("group created", "id", g.ID, "name", g.Name)
	return &g, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Group, error) {
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}

	q := `UPDATE groups SET name = $1, description = $2, can_create = $3, can_read = $4,
		can_update = $5, can_delete = $6, is_admin = $7, updated_at = now()
		WHERE id = $8
		` + returning

	g, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Group, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			cmd.Name, cmd.Description,
			cmd.CanCreate, cmd.CanRead, cmd.CanUpdate, cmd.CanDelete, cmd.IsAdmin, id,
		}, scanGroup)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("group updated", "id", g.ID, "name", g.Name)
	return &g, nil
}

// Delete removes the group and its memberships. Grants already copied to
// members are left in place.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM groups WHERE id = $1`, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("group deleted", "id", id)
	return nil
}

func (r *repo) Members(ctx context.Context, id uuid.UUID) ([]Member, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	return repository.QueryMany(ctx, r.db,
		`SELECT m.user_id, u.username, m.added_at
		FROM group_members m JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY u.username`,
		[]any{id}, scanMember)
}

func (r *repo) AddMember(ctx context.Context, id, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, userID)
		return struct{}{}, err
	})
	if err != nil {
		switch repository.ConstraintName(err) {
		case "group_members_group_id_fkey":
			return ErrNotFound
		case "group_members_user_id_fkey":
			return ErrUserNotFound
		}
		return err
	}

	r.logger.Info("group member added", "group_id", id, "user_id", userID)
	return nil
}

func (r *repo) RemoveMember(ctx context.Context, id, userID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, id, userID)
		return struct{}{}, err
	})
	if err != nil {
		return err
	}

	r.logger.Info("group member removed", "group_id", id, "user_id", userID)
	return nil
}
