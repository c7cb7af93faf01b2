package memstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/documents"
	"github.com/JaimeStill/docman/internal/folders"
	"github.com/JaimeStill/docman/internal/memstore"
	"github.com/JaimeStill/docman/internal/users"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/repository"
)

func newDocument(t *testing.T, store *memstore.Store, owner uuid.UUID, folderID *uuid.UUID) access.Ref {
	t.Helper()
	id := uuid.New()
	_, err := store.Documents().Create(context.Background(), documents.Document{
		ID:         id,
		Name:       "doc-" + id.String()[:8],
		StorageKey: "documents/" + id.String() + "/f",
		FolderID:   folderID,
		OwnerID:    owner,
	}, nil, nil)
	require.NoError(t, err)
	return access.DocumentRef(id)
}

func put(ctx context.Context, tx access.Tx, ref access.Ref, userID uuid.UUID, flags access.Flags) error {
	l, err := tx.List(ctx, ref)
	if err != nil {
		return err
	}
	if err := tx.Put(ctx, l, userID, flags); err != nil {
		return err
	}
	return tx.Save(ctx, l)
}

func TestCreate_SeedsOwnerItem(t *testing.T) {
	store := memstore.New()
	owner := store.AddUser("uma", users.RoleUser)
	ref := newDocument(t, store, owner, nil)

	item, err := store.Item(context.Background(), ref, owner)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, access.LevelOwner, item.Level)
	assert.Equal(t, int64(0), store.Version(ref))
}

func TestUpdate_DetectsLostUpdate(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	owner := store.AddUser("uma", users.RoleUser)
	first := store.AddUser("ann", users.RoleUser)
	second := store.AddUser("ben", users.RoleUser)
	ref := newDocument(t, store, owner, nil)

	view := access.LevelView.Flags()

	err := store.Update(ctx, func(a access.Tx) error {
		if err := put(ctx, a, ref, first, view); err != nil {
			return err
		}
		return store.Update(ctx, func(b access.Tx) error {
			return put(ctx, b, ref, second, view)
		})
	})
	require.ErrorIs(t, err, repository.ErrConcurrency)

	a, _ := store.Item(ctx, ref, first)
	b, _ := store.Item(ctx, ref, second)
	assert.Nil(t, a, "the stale transaction must not commit")
	assert.NotNil(t, b)
	assert.Equal(t, int64(1), store.Version(ref))
}

func TestUpdate_ConcurrentListCreation(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	owner := store.AddUser("uma", users.RoleUser)
	other := store.AddUser("vic", users.RoleUser)
	folder := access.FolderRef(uuid.New())

	// Neither transaction finds a list; only the first to commit may create it.
	err := store.Update(ctx, func(a access.Tx) error {
		if err := put(ctx, a, folder, owner, access.All()); err != nil {
			return err
		}
		return store.Update(ctx, func(b access.Tx) error {
			return put(ctx, b, folder, other, access.LevelView.Flags())
		})
	})
	assert.ErrorIs(t, err, repository.ErrConcurrency)
	assert.Equal(t, int64(1), store.Version(folder))
}

func TestUpdate_FailedTransactionWritesNothing(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	owner := store.AddUser("uma", users.RoleUser)
	other := store.AddUser("vic", users.RoleUser)
	ref := newDocument(t, store, owner, nil)

	err := store.Update(ctx, func(tx access.Tx) error {
		if err := put(ctx, tx, ref, other, access.All()); err != nil {
			return err
		}
		l, _ := tx.List(ctx, ref)
		return tx.Put(ctx, l, uuid.New(), access.All())
	})
	require.ErrorIs(t, err, access.ErrSubjectNotFound)

	item, _ := store.Item(ctx, ref, other)
	assert.Nil(t, item)
	assert.Equal(t, int64(0), store.Version(ref))
}

func TestDocuments_SoftDeleteHides(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	owner := store.AddUser("uma", users.RoleUser)
	ref := newDocument(t, store, owner, nil)

	require.NoError(t, store.Documents().SoftDelete(ctx, ref.ID))

	_, err := store.Documents().Find(ctx, ref.ID)
	assert.ErrorIs(t, err, documents.ErrNotFound)

	_, err = store.Resource(ctx, ref)
	assert.ErrorIs(t, err, access.ErrNotFound)

	page, err := store.Documents().List(ctx, access.Viewer{UserID: owner, Admin: true}, pagination.PageRequest{}, documents.Filters{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	assert.ErrorIs(t, store.Documents().SoftDelete(ctx, ref.ID), documents.ErrNotFound)
}

func TestDocuments_ListVisibility(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	owner := store.AddUser("uma", users.RoleUser)
	other := store.AddUser("vic", users.RoleUser)
	newDocument(t, store, owner, nil)
	shared := newDocument(t, store, owner, nil)

	require.NoError(t, store.Update(ctx, func(tx access.Tx) error {
		return put(ctx, tx, shared, other, access.LevelView.Flags())
	}))

	page, err := store.Documents().List(ctx, access.Viewer{UserID: other}, pagination.PageRequest{}, documents.Filters{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, shared.ID, page.Data[0].ID)

	page, err = store.Documents().List(ctx, access.Viewer{UserID: owner}, pagination.PageRequest{}, documents.Filters{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestFolders_DeleteDetachesSoftDeletedDocuments(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	owner := store.AddUser("uma", users.RoleUser)

	folder, err := store.Folders().Create(ctx, folders.Folder{ID: uuid.New(), Name: "inbox", OwnerID: owner})
	require.NoError(t, err)

	doc := newDocument(t, store, owner, &folder.ID)
	assert.ErrorIs(t, store.Folders().Delete(ctx, folder.ID), folders.ErrNotEmpty)

	require.NoError(t, store.Documents().SoftDelete(ctx, doc.ID))
	require.NoError(t, store.Folders().Delete(ctx, folder.ID))

	assert.Equal(t, int64(-1), store.Version(access.FolderRef(folder.ID)))
	_, err = store.Folders().Find(ctx, folder.ID)
	assert.ErrorIs(t, err, folders.ErrNotFound)
}
