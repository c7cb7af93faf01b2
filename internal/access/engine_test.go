package access_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/documents"
	"github.com/JaimeStill/docman/internal/folders"
	"github.com/JaimeStill/docman/internal/memstore"
	"github.com/JaimeStill/docman/internal/users"
	"github.com/JaimeStill/docman/pkg/repository"
)

var (
	viewDownload = access.Flags{CanView: true, CanDownload: true}
	editFlags    = access.LevelEdit.Flags()
)

type fixture struct {
	store *memstore.Store
	sys   access.System
	owner uuid.UUID
	admin uuid.UUID
	other uuid.UUID
	doc   access.Ref
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func retryConfig() repository.RetryConfig {
	return repository.RetryConfig{MaxAttempts: 3}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	f := &fixture{
		store: store,
		owner: store.AddUser("uma", users.RoleUser),
		admin: store.AddUser("ada", users.RoleAdmin),
		other: store.AddUser("vic", users.RoleUser),
	}
	f.doc = f.addDocument(t, f.owner, "report.pdf")
	f.sys = access.New(store, retryConfig(), discardLogger())
	return f
}

func (f *fixture) addDocument(t *testing.T, owner uuid.UUID, name string) access.Ref {
	t.Helper()
	id := uuid.New()
	_, err := f.store.Documents().Create(context.Background(), documents.Document{
		ID:         id,
		Name:       name,
		Filename:   name,
		StorageKey: "documents/" + id.String() + "/" + name,
		OwnerID:    owner,
	}, nil, nil)
	require.NoError(t, err)
	return access.DocumentRef(id)
}

func (f *fixture) addFolder(t *testing.T, owner uuid.UUID, name string) access.Ref {
	t.Helper()
	folder, err := f.store.Folders().Create(context.Background(), folders.Folder{
		ID:      uuid.New(),
		Name:    name,
		OwnerID: owner,
	})
	require.NoError(t, err)
	return access.FolderRef(folder.ID)
}

func (f *fixture) effective(t *testing.T, ref access.Ref, user uuid.UUID) access.Flags {
	t.Helper()
	flags, err := f.sys.Effective(context.Background(), ref, user)
	require.NoError(t, err)
	return flags
}

func TestEffective_OwnerAlwaysHasAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, access.All(), f.effective(t, f.doc, f.owner))

	// A narrower stored item for the owner is never consulted.
	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.owner, access.Flags{CanView: true}))
	assert.Equal(t, access.All(), f.effective(t, f.doc, f.owner))

	owner, err := f.sys.IsOwner(ctx, f.doc, f.owner)
	require.NoError(t, err)
	assert.True(t, owner)
}

func TestEffective_AdminAlwaysHasAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, access.All(), f.effective(t, f.doc, f.admin))

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.admin, access.Flags{CanView: true}))
	assert.Equal(t, access.All(), f.effective(t, f.doc, f.admin))

	admin, err := f.sys.IsAdmin(ctx, f.admin)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = f.sys.IsAdmin(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, admin, "unknown users are not admins")
}

func TestEffective_NoItemDeniesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, access.Flags{}, f.effective(t, f.doc, f.other))

	checks := map[string]func(context.Context, access.Ref, uuid.UUID) (bool, error){
		"view":     f.sys.CanView,
		"edit":     f.sys.CanEdit,
		"download": f.sys.CanDownload,
		"annotate": f.sys.CanAnnotate,
		"delete":   f.sys.CanDelete,
		"share":    f.sys.CanShare,
	}
	for name, check := range checks {
		ok, err := check(ctx, f.doc, f.other)
		require.NoError(t, err, name)
		assert.False(t, ok, name)
	}
}

func TestEffective_MissingResource(t *testing.T) {
	f := newFixture(t)

	_, err := f.sys.Effective(context.Background(), access.DocumentRef(uuid.New()), f.admin)
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = f.sys.CanView(context.Background(), access.FolderRef(uuid.New()), f.owner)
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestGrantThenRevoke_IsReversible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, editFlags))
	assert.Equal(t, editFlags, f.effective(t, f.doc, f.other))

	require.NoError(t, f.sys.RevokeForUser(ctx, f.doc, f.other))
	assert.Equal(t, access.Flags{}, f.effective(t, f.doc, f.other))
}

func TestGrantToUser_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, viewDownload))
	first, err := f.sys.Permissions(ctx, f.doc)
	require.NoError(t, err)

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, viewDownload))
	second, err := f.sys.Permissions(ctx, f.doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGrantToUser_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.sys.GrantToUser(ctx, f.doc, f.other, access.Flags{}), access.ErrEmptyGrant)
	assert.ErrorIs(t, f.sys.GrantToUser(ctx, f.doc, uuid.New(), viewDownload), access.ErrSubjectNotFound)
	assert.ErrorIs(t, f.sys.GrantToUser(ctx, access.DocumentRef(uuid.New()), f.other, viewDownload), access.ErrNotFound)
}

func TestGrantToUser_BumpsListVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	folder := f.addFolder(t, f.owner, "shared")
	before := f.store.Version(folder)

	require.NoError(t, f.sys.GrantToUser(ctx, folder, f.other, viewDownload))
	assert.Equal(t, viewDownload, f.effective(t, folder, f.other))
	assert.Equal(t, before+1, f.store.Version(folder))
}

func TestRevokeForUser_WithoutItemSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.sys.RevokeForUser(ctx, f.doc, f.other))
	assert.NoError(t, f.sys.RevokeForUser(ctx, f.doc, uuid.New()))
	assert.ErrorIs(t, f.sys.RevokeForUser(ctx, access.DocumentRef(uuid.New()), f.other), access.ErrNotFound)
}

func TestGrantToGroup_MaterializesPerMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.store.AddUser("ann", users.RoleUser)
	b := f.store.AddUser("ben", users.RoleUser)
	c := f.store.AddUser("cat", users.RoleUser)
	group := f.store.AddGroup("reviewers")
	for _, u := range []uuid.UUID{a, b, c} {
		f.store.AddMember(group, u)
	}

	comment := access.LevelComment.Flags()
	require.NoError(t, f.sys.GrantToGroup(ctx, f.doc, group, comment))

	for _, u := range []uuid.UUID{a, b, c} {
		assert.Equal(t, comment, f.effective(t, f.doc, u))
	}

	// Leaving the group does not withdraw a grant that was already copied.
	f.store.RemoveMember(group, b)
	assert.Equal(t, comment, f.effective(t, f.doc, b))

	require.NoError(t, f.sys.RevokeForGroup(ctx, f.doc, group))
	assert.Equal(t, access.Flags{}, f.effective(t, f.doc, a))
	assert.Equal(t, access.Flags{}, f.effective(t, f.doc, c))
	assert.Equal(t, comment, f.effective(t, f.doc, b), "revoke reads the current roster")
}

func TestGrantToGroup_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.store.AddGroup("empty")

	assert.ErrorIs(t, f.sys.GrantToGroup(ctx, f.doc, uuid.New(), viewDownload), access.ErrGroupNotFound)
	assert.ErrorIs(t, f.sys.GrantToGroup(ctx, access.DocumentRef(uuid.New()), group, viewDownload), access.ErrNotFound)
	assert.ErrorIs(t, f.sys.RevokeForGroup(ctx, f.doc, uuid.New()), access.ErrGroupNotFound)
}

func TestGrantToGroup_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.store.AddUser("ann", users.RoleUser)
	group := f.store.AddGroup("broken")
	f.store.AddMember(group, a)
	f.store.AddMember(group, uuid.New())

	err := f.sys.GrantToGroup(ctx, f.doc, group, viewDownload)
	require.ErrorIs(t, err, access.ErrSubjectNotFound)

	assert.Equal(t, access.Flags{}, f.effective(t, f.doc, a), "no member may keep a partial grant")
}

func TestPermissions_JoinsUsernames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, viewDownload))

	records, err := f.sys.Permissions(ctx, f.doc)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "uma", records[0].Username)
	assert.True(t, records[0].Owner)
	assert.Equal(t, access.LevelOwner, records[0].Level)

	assert.Equal(t, "vic", records[1].Username)
	assert.Equal(t, access.LevelDownload, records[1].Level)
	assert.Equal(t, "report.pdf", records[1].ResourceName)
}

func TestAccessible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	own := f.addDocument(t, f.other, "notes.txt")
	hidden := f.addDocument(t, f.owner, "hidden.txt")
	folder := f.addFolder(t, f.owner, "archive")
	deleted := f.addDocument(t, f.owner, "old.txt")

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, viewDownload))
	require.NoError(t, f.sys.GrantToUser(ctx, hidden, f.other, access.Flags{CanDownload: true}))
	require.NoError(t, f.sys.GrantToUser(ctx, folder, f.other, access.LevelView.Flags()))
	require.NoError(t, f.sys.GrantToUser(ctx, deleted, f.other, viewDownload))
	require.NoError(t, f.store.Documents().SoftDelete(ctx, deleted.ID))

	records, err := f.sys.Accessible(ctx, f.other)
	require.NoError(t, err)

	got := map[uuid.UUID]access.Record{}
	for _, r := range records {
		got[r.ResourceID] = r
	}

	require.Len(t, got, 3)
	assert.Equal(t, access.All(), got[own.ID].Flags)
	assert.True(t, got[own.ID].Owner)
	assert.Equal(t, viewDownload, got[f.doc.ID].Flags)
	assert.Equal(t, access.KindFolder, got[folder.ID].Kind)
	assert.NotContains(t, got, hidden.ID, "items without view are excluded")
	assert.NotContains(t, got, deleted.ID, "soft-deleted documents are excluded")
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.sys.Authorize(ctx, f.doc, f.other, access.PermView), access.ErrForbidden)

	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, viewDownload))
	assert.NoError(t, f.sys.Authorize(ctx, f.doc, f.other, access.PermDownload))
	assert.ErrorIs(t, f.sys.Authorize(ctx, f.doc, f.other, access.PermShare), access.ErrForbidden)
}

// Owner U uploads D, an admin shares it with V, then U withdraws it.
func TestShareAndRevokeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, access.All(), f.effective(t, f.doc, f.owner))
	assert.NotEqual(t, int64(-1), f.store.Version(f.doc), "upload creates the list")

	require.NoError(t, f.sys.Authorize(ctx, f.doc, f.admin, access.PermShare))
	require.NoError(t, f.sys.GrantToUser(ctx, f.doc, f.other, viewDownload))

	flags := f.effective(t, f.doc, f.other)
	assert.Equal(t, access.Flags{CanView: true, CanDownload: true}, flags)
	assert.Equal(t, access.LevelDownload, flags.Level())

	require.NoError(t, f.sys.Authorize(ctx, f.doc, f.owner, access.PermShare))
	require.NoError(t, f.sys.RevokeForUser(ctx, f.doc, f.other))

	ok, err := f.sys.CanView(ctx, f.doc, f.other)
	require.NoError(t, err)
	assert.False(t, ok)
}

// flakyStore fails the first n updates with err.
type flakyStore struct {
	access.Store
	n     int
	err   error
	calls int
}

func (s *flakyStore) Update(ctx context.Context, fn func(access.Tx) error) error {
	s.calls++
	if s.calls <= s.n {
		return s.err
	}
	return s.Store.Update(ctx, fn)
}

func TestMutation_RetriesConcurrencyConflicts(t *testing.T) {
	f := newFixture(t)
	store := &flakyStore{Store: f.store, n: 2, err: repository.ErrConcurrency}
	sys := access.New(store, retryConfig(), discardLogger())

	require.NoError(t, sys.GrantToUser(context.Background(), f.doc, f.other, viewDownload))
	assert.Equal(t, 3, store.calls)
	assert.Equal(t, viewDownload, f.effective(t, f.doc, f.other))
}

func TestMutation_ExhaustedRetriesReportConflict(t *testing.T) {
	f := newFixture(t)
	store := &flakyStore{Store: f.store, n: 100, err: repository.ErrConcurrency}
	sys := access.New(store, retryConfig(), discardLogger())

	err := sys.RevokeForUser(context.Background(), f.doc, f.other)
	assert.ErrorIs(t, err, access.ErrConflict)
	assert.Equal(t, 3, store.calls)
	assert.Equal(t, 409, access.MapHTTPStatus(err))
}

func TestMutation_OtherErrorsAreNotRetried(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("storage unavailable")
	store := &flakyStore{Store: f.store, n: 100, err: boom}
	sys := access.New(store, retryConfig(), discardLogger())

	err := sys.GrantToUser(context.Background(), f.doc, f.other, viewDownload)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.calls)
}

// racingStore lets a competing grant commit while the first grant's
// transaction is still open.
type racingStore struct {
	access.Store
	compete func()
	calls   int
}

func (s *racingStore) Update(ctx context.Context, fn func(access.Tx) error) error {
	s.calls++
	if s.calls != 1 {
		return s.Store.Update(ctx, fn)
	}
	return s.Store.Update(ctx, func(tx access.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		s.compete()
		return nil
	})
}

func TestConcurrentGrants_LastCommitWinsWithoutMerging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	store := &racingStore{Store: f.store}
	sys := access.New(store, retryConfig(), discardLogger())

	flagsA := access.Flags{CanView: true, CanAnnotate: true}
	flagsB := access.Flags{CanView: true, CanDownload: true, CanDelete: true}

	store.compete = func() {
		require.NoError(t, sys.GrantToUser(ctx, f.doc, f.other, flagsB))
	}

	require.NoError(t, sys.GrantToUser(ctx, f.doc, f.other, flagsA))

	assert.Equal(t, 3, store.calls, "the losing grant is retried once")
	assert.Equal(t, flagsA, f.effective(t, f.doc, f.other))
}
