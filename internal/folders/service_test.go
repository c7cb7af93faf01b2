package folders_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
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

type env struct {
	store   *memstore.Store
	acl     access.System
	folders folders.System
	owner   uuid.UUID
	other   uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	acl := access.New(store, repository.RetryConfig{MaxAttempts: 3}, logger)

	return &env{
		store:   store,
		acl:     acl,
		folders: folders.New(store.Folders(), acl, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}),
		owner:   store.AddUser("uma", users.RoleUser),
		other:   store.AddUser("vic", users.RoleUser),
	}
}

func (e *env) create(t *testing.T, name string, parent *uuid.UUID) *folders.Folder {
	t.Helper()
	f, err := e.folders.Create(context.Background(), e.owner, folders.CreateCommand{Name: name, ParentID: parent})
	require.NoError(t, err)
	return f
}

func TestCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.folders.Create(ctx, e.owner, folders.CreateCommand{})
	assert.ErrorIs(t, err, folders.ErrNameRequired)

	root := e.create(t, "projects", nil)
	child := e.create(t, "alpha", &root.ID)
	assert.Equal(t, root.ID, *child.ParentID)

	flags, err := e.acl.Effective(ctx, access.FolderRef(child.ID), e.owner)
	require.NoError(t, err)
	assert.Equal(t, access.All(), flags)

	_, err = e.folders.Create(ctx, e.other, folders.CreateCommand{Name: "intruder", ParentID: &root.ID})
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	root := e.create(t, "projects", nil)
	e.create(t, "alpha", &root.ID)
	e.create(t, "beta", &root.ID)
	e.create(t, "private", nil)

	require.NoError(t, e.acl.GrantToUser(ctx, access.FolderRef(root.ID), e.other, access.LevelView.Flags()))

	page, err := e.folders.List(ctx, e.other, nil, pagination.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "projects", page.Data[0].Name)

	children, err := e.folders.List(ctx, e.owner, &root.ID, pagination.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, children.Data, 2)
}

func TestUpdate_Reparent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a := e.create(t, "a", nil)
	b := e.create(t, "b", &a.ID)
	c := e.create(t, "c", &b.ID)

	tests := []struct {
		name   string
		id     uuid.UUID
		parent *uuid.UUID
		want   error
	}{
		{"self", a.ID, &a.ID, folders.ErrSelfParent},
		{"direct cycle", a.ID, &b.ID, folders.ErrCycle},
		{"deep cycle", a.ID, &c.ID, folders.ErrCycle},
		{"sibling move", c.ID, &a.ID, nil},
		{"to root", b.ID, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := e.folders.Update(ctx, e.owner, tt.id, folders.UpdateCommand{
				Name:      "renamed",
				SetParent: true,
				ParentID:  tt.parent,
			})
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, http.StatusBadRequest, folders.MapHTTPStatus(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.parent, f.ParentID)
		})
	}
}

func TestUpdate_KeepsParentUnlessSet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	root := e.create(t, "root", nil)
	child := e.create(t, "child", &root.ID)

	f, err := e.folders.Update(ctx, e.owner, child.ID, folders.UpdateCommand{Name: "kid"})
	require.NoError(t, err)
	assert.Equal(t, "kid", f.Name)
	require.NotNil(t, f.ParentID)
	assert.Equal(t, root.ID, *f.ParentID)
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	root := e.create(t, "root", nil)
	child := e.create(t, "child", &root.ID)

	err := e.folders.Delete(ctx, e.owner, root.ID)
	require.ErrorIs(t, err, folders.ErrNotEmpty)
	assert.Equal(t, http.StatusConflict, folders.MapHTTPStatus(err))

	_, err = e.store.Documents().Create(ctx, documents.Document{
		ID:         uuid.New(),
		Name:       "memo",
		StorageKey: "documents/memo",
		FolderID:   &child.ID,
		OwnerID:    e.owner,
	}, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, e.folders.Delete(ctx, e.owner, child.ID), folders.ErrNotEmpty)

	assert.ErrorIs(t, e.folders.Delete(ctx, e.other, root.ID), access.ErrForbidden)

	empty := e.create(t, "empty", nil)
	require.NoError(t, e.folders.Delete(ctx, e.owner, empty.ID))

	_, err = e.folders.Find(ctx, e.owner, empty.ID)
	assert.ErrorIs(t, err, access.ErrNotFound)
}
