package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/repository"
)

var _ access.Store = (*Store)(nil)

func (s *Store) Resource(ctx context.Context, ref access.Ref) (*access.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resource(ref)
}

func (s *Store) Subject(ctx context.Context, userID uuid.UUID) (*access.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, access.ErrSubjectNotFound
	}
	return &access.Subject{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *Store) Item(ctx context.Context, ref access.Ref, userID uuid.UUID) (*access.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[ref]
	if !ok {
		return nil, nil
	}
	flags, ok := l.items[userID]
	if !ok {
		return nil, nil
	}
	return &access.Item{UserID: userID, Flags: flags, Level: flags.Level()}, nil
}

func (s *Store) Records(ctx context.Context, ref access.Ref) ([]access.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.resource(ref)
	if err != nil {
		return nil, err
	}

	records := []access.Record{}
	if l, ok := s.lists[ref]; ok {
		for userID, flags := range l.items {
			records = append(records, access.Record{
				Kind:         ref.Kind,
				ResourceID:   ref.ID,
				ResourceName: res.Name,
				UserID:       userID,
				Username:     s.users[userID].Username,
				Owner:        userID == res.OwnerID,
				Flags:        flags,
				Level:        flags.Level(),
			})
		}
	}

	slices.SortFunc(records, func(a, b access.Record) int { return cmp.Compare(a.Username, b.Username) })
	return records, nil
}

func (s *Store) Accessible(ctx context.Context, userID uuid.UUID) ([]access.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return []access.Record{}, nil
	}

	records := []access.Record{}
	add := func(ref access.Ref, name string, ownerID uuid.UUID) {
		rec := access.Record{
			Kind:         ref.Kind,
			ResourceID:   ref.ID,
			ResourceName: name,
			UserID:       userID,
			Username:     u.Username,
		}
		if ownerID == userID {
			rec.Owner = true
			rec.Flags = access.All()
		} else if l, ok := s.lists[ref]; ok && l.items[userID].CanView {
			rec.Flags = l.items[userID]
		} else {
			return
		}
		rec.Level = rec.Flags.Level()
		records = append(records, rec)
	}

	for _, d := range s.documents {
		if !d.deleted {
			add(access.DocumentRef(d.ID), d.Name, d.OwnerID)
		}
	}
	for _, f := range s.folders {
		add(access.FolderRef(f.ID), f.Name, f.OwnerID)
	}

	slices.SortFunc(records, func(a, b access.Record) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.ResourceName, b.ResourceName))
	})
	return records, nil
}

// Update buffers every write made through the Tx and applies them only if
// each saved list still has the version the Tx loaded.
func (s *Store) Update(ctx context.Context, fn func(tx access.Tx) error) error {
	t := &tx{
		s:       s,
		created: make(map[access.Ref]uuid.UUID),
		saves:   make(map[access.Ref]int64),
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

type op struct {
	ref    access.Ref
	userID uuid.UUID
	flags  access.Flags
	remove bool
}

type tx struct {
	s       *Store
	created map[access.Ref]uuid.UUID
	saves   map[access.Ref]int64
	ops     []op
}

func (t *tx) Resource(ctx context.Context, ref access.Ref) (*access.Resource, error) {
	return t.s.Resource(ctx, ref)
}

func (t *tx) Members(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.groups[groupID]; !ok {
		return nil, access.ErrGroupNotFound
	}
	return slices.Clone(t.s.members[groupID]), nil
}

func (t *tx) List(ctx context.Context, ref access.Ref) (*access.List, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if l, ok := t.s.lists[ref]; ok {
		return &access.List{ID: l.id, Ref: ref, Version: l.version}, nil
	}

	id, ok := t.created[ref]
	if !ok {
		id = uuid.New()
		t.created[ref] = id
	}
	return &access.List{ID: id, Ref: ref}, nil
}

func (t *tx) Put(ctx context.Context, l *access.List, userID uuid.UUID, flags access.Flags) error {
	t.s.mu.Lock()
	_, ok := t.s.users[userID]
	t.s.mu.Unlock()

	if !ok {
		return access.ErrSubjectNotFound
	}
	t.ops = append(t.ops, op{ref: l.Ref, userID: userID, flags: flags})
	return nil
}

func (t *tx) Remove(ctx context.Context, l *access.List, userID uuid.UUID) error {
	t.ops = append(t.ops, op{ref: l.Ref, userID: userID, remove: true})
	return nil
}

func (t *tx) Save(ctx context.Context, l *access.List) error {
	if _, ok := t.saves[l.Ref]; !ok {
		t.saves[l.Ref] = l.Version
	}
	l.Version++
	return nil
}

func (t *tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for ref, expected := range t.saves {
		current, exists := t.s.lists[ref]
		_, createdHere := t.created[ref]

		switch {
		case createdHere && exists:
			return repository.ErrConcurrency
		case !createdHere && !exists:
			return repository.ErrConcurrency
		case exists && current.version != expected:
			return repository.ErrConcurrency
		}
	}

	for ref, id := range t.created {
		if _, saved := t.saves[ref]; saved {
			t.s.lists[ref] = &list{id: id, items: make(map[uuid.UUID]access.Flags)}
		}
	}

	for _, o := range t.ops {
		l, ok := t.s.lists[o.ref]
		if !ok {
			continue
		}
		if o.remove {
			delete(l.items, o.userID)
		} else {
			l.items[o.userID] = o.flags
		}
	}

	for ref, expected := range t.saves {
		t.s.lists[ref].version = expected + 1
	}
	return nil
}
