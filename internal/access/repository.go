package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/repository"
)

type pgStore struct {
	db *sql.DB
}

// NewStore creates a Postgres-backed Store.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (k Kind) table() string {
	if k == KindFolder {
		return "folders"
	}
	return "documents"
}

func (k Kind) column() string {
	if k == KindFolder {
		return "folder_id"
	}
	return "document_id"
}

const flagColumns = "i.can_view, i.can_edit, i.can_download, i.can_annotate, i.can_delete, i.can_share"

func flagDest(f *Flags) []any {
	return []any{&f.CanView, &f.CanEdit, &f.CanDownload, &f.CanAnnotate, &f.CanDelete, &f.CanShare}
}

func findResource(ctx context.Context, q repository.Querier, ref Ref) (*Resource, error) {
	var query string
	switch ref.Kind {
	case KindDocument:
		query = `SELECT id, owner_id, name FROM documents WHERE id = $1 AND NOT is_deleted`
	case KindFolder:
		query = `SELECT id, owner_id, name FROM folders WHERE id = $1`
	default:
		return nil, ErrInvalidKind
	}

	res := Resource{Ref: ref}
	err := q.QueryRowContext(ctx, query, ref.ID).Scan(&res.ID, &res.OwnerID, &res.Name)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, err)
	}
	return &res, nil
}

func (s *pgStore) Resource(ctx context.Context, ref Ref) (*Resource, error) {
	return findResource(ctx, s.db, ref)
}

func (s *pgStore) Subject(ctx context.Context, userID uuid.UUID) (*Subject, error) {
	var sub Subject
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, role FROM users WHERE id = $1`, userID,
	).Scan(&sub.ID, &sub.Username, &sub.Role)
	if err != nil {
		return nil, repository.MapError(err, ErrSubjectNotFound, err)
	}
	return &sub, nil
}

func (s *pgStore) Item(ctx context.Context, ref Ref, userID uuid.UUID) (*Item, error) {
	q := fmt.Sprintf(`SELECT i.user_id, %s, i.access_level
		FROM accessibility_list_items i
		JOIN accessibility_lists l ON l.id = i.list_id
		WHERE l.%s = $1 AND i.user_id = $2`, flagColumns, ref.Kind.column())

	var item Item
	dest := append([]any{&item.UserID}, flagDest(&item.Flags)...)
	dest = append(dest, &item.Level)

	err := s.db.QueryRowContext(ctx, q, ref.ID, userID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *pgStore) Records(ctx context.Context, ref Ref) ([]Record, error) {
	q := fmt.Sprintf(`SELECT r.id, r.name, r.owner_id, i.user_id, u.username, %s, i.access_level
		FROM accessibility_list_items i
		JOIN accessibility_lists l ON l.id = i.list_id
		JOIN %s r ON r.id = l.%s
		JOIN users u ON u.id = i.user_id
		WHERE l.%s = $1
		ORDER BY u.username`,
		flagColumns, ref.Kind.table(), ref.Kind.column(), ref.Kind.column())

	return repository.QueryMany(ctx, s.db, q, []any{ref.ID}, func(sc repository.Scanner) (Record, error) {
		rec := Record{Kind: ref.Kind}
		var ownerID uuid.UUID
		dest := append([]any{&rec.ResourceID, &rec.ResourceName, &ownerID, &rec.UserID, &rec.Username}, flagDest(&rec.Flags)...)
		dest = append(dest, &rec.Level)
		err := sc.Scan(dest...)
		rec.Owner = ownerID == rec.UserID
		return rec, err
	})
}

// Owned resources come first with synthesized full flags. Stored items on
// owned resources are skipped so each resource appears once.
const accessibleQuery = `
WITH me AS (SELECT id, username FROM users WHERE id = $1)
SELECT 'document', d.id, d.name, me.id, me.username, true,
	true, true, true, true, true, true, 'Owner'
FROM documents d JOIN me ON me.id = d.owner_id
WHERE NOT d.is_deleted
UNION ALL
SELECT 'folder', f.id, f.name, me.id, me.username, true,
	true, true, true, true, true, true, 'Owner'
FROM folders f JOIN me ON me.id = f.owner_id
UNION ALL
SELECT 'document', d.id, d.name, me.id, me.username, false,
	i.can_view, i.can_edit, i.can_download, i.can_annotate, i.can_delete, i.can_share, i.access_level
FROM accessibility_list_items i
JOIN me ON me.id = i.user_id
JOIN accessibility_lists l ON l.id = i.list_id
JOIN documents d ON d.id = l.document_id
WHERE i.can_view AND NOT d.is_deleted AND d.owner_id <> me.id
UNION ALL
SELECT 'folder', f.id, f.name, me.id, me.username, false,
	i.can_view, i.can_edit, i.can_download, i.can_annotate, i.can_delete, i.can_share, i.access_level
FROM accessibility_list_items i
JOIN me ON me.id = i.user_id
JOIN accessibility_lists l ON l.id = i.list_id
JOIN folders f ON f.id = l.folder_id
WHERE i.can_view AND f.owner_id <> me.id
ORDER BY 1, 3`

func (s *pgStore) Accessible(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	return repository.QueryMany(ctx, s.db, accessibleQuery, []any{userID}, func(sc repository.Scanner) (Record, error) {
		var rec Record
		dest := append([]any{&rec.Kind, &rec.ResourceID, &rec.ResourceName, &rec.UserID, &rec.Username, &rec.Owner}, flagDest(&rec.Flags)...)
		dest = append(dest, &rec.Level)
		err := sc.Scan(dest...)
		return rec, err
	})
}

func (s *pgStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, fn(&pgTx{tx: tx})
	})
	return err
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Resource(ctx context.Context, ref Ref) (*Resource, error) {
	return findResource(ctx, t.tx, ref)
}

func (t *pgTx) Members(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var exists bool
	if err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	return repository.QueryMany(ctx, t.tx,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY added_at, user_id`,
		[]any{groupID},
		func(sc repository.Scanner) (uuid.UUID, error) {
			var id uuid.UUID
			err := sc.Scan(&id)
			return id, err
		})
}

func (t *pgTx) List(ctx context.Context, ref Ref) (*List, error) {
	list := List{Ref: ref}

	q := fmt.Sprintf(`SELECT id, version FROM accessibility_lists WHERE %s = $1`, ref.Kind.column())
	err := t.tx.QueryRowContext(ctx, q, ref.ID).Scan(&list.ID, &list.Version)
	if err == nil {
		return &list, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	id, err := insertList(ctx, t.tx, ref)
	if err != nil {
		return nil, err
	}
	list.ID = id
	return &list, nil
}

func (t *pgTx) Put(ctx context.Context, list *List, userID uuid.UUID, flags Flags) error {
	err := putItem(ctx, t.tx, list.ID, userID, flags)
	if repository.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, userID)
	}
	return err
}

func (t *pgTx) Remove(ctx context.Context, list *List, userID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx,
		`DELETE FROM accessibility_list_items WHERE list_id = $1 AND user_id = $2`,
		list.ID, userID)
	return err
}

func (t *pgTx) Save(ctx context.Context, list *List) error {
	err := repository.ExecExpectOne(ctx, t.tx,
		`UPDATE accessibility_lists SET version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`,
		list.ID, list.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrConcurrency
	}
	if err != nil {
		return err
	}

	list.Version++
	return nil
}

// insertList creates an empty list for ref. A concurrent insert for the
// same resource reports repository.ErrConcurrency.
func insertList(ctx context.Context, tx *sql.Tx, ref Ref) (uuid.UUID, error) {
	q := fmt.Sprintf(`INSERT INTO accessibility_lists (id, %s, version)
		VALUES ($1, $2, 0)
		ON CONFLICT DO NOTHING
		RETURNING id`, ref.Kind.column())

	var id uuid.UUID
	err := tx.QueryRowContext(ctx, q, uuid.New(), ref.ID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, repository.ErrConcurrency
	}
	return id, err
}

func putItem(ctx context.Context, tx *sql.Tx, listID, userID uuid.UUID, flags Flags) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO accessibility_list_items
			(id, list_id, user_id, can_view, can_edit, can_download, can_annotate, can_delete, can_share, access_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (list_id, user_id) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_edit = EXCLUDED.can_edit,
			can_download = EXCLUDED.can_download,
			can_annotate = EXCLUDED.can_annotate,
			can_delete = EXCLUDED.can_delete,
			can_share = EXCLUDED.can_share,
			access_level = EXCLUDED.access_level,
			updated_at = now()`,
		uuid.New(), listID, userID,
		flags.CanView, flags.CanEdit, flags.CanDownload, flags.CanAnnotate, flags.CanDelete, flags.CanShare,
		flags.Level())
	return err
}

// SeedOwner creates the accessibility list for a new resource together with
// an Owner item for its creator. It runs inside the caller's transaction so
// the resource row and its list commit together.
func SeedOwner(ctx context.Context, tx *sql.Tx, ref Ref, ownerID uuid.UUID) error {
	listID, err := insertList(ctx, tx, ref)
	if err != nil {
		return fmt.Errorf("create accessibility list: %w", err)
	}
	if err := putItem(ctx, tx, listID, ownerID, All()); err != nil {
		return fmt.Errorf("seed owner item: %w", err)
	}
	return nil
}
