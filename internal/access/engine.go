package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/repository"
)

// System resolves and mutates per-resource permissions.
type System interface {
	IsOwner(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)

	// Effective resolves the user's permissions on ref: admins and the owner
	// hold every flag, everyone else holds their stored item or nothing.
	Effective(ctx context.Context, ref Ref, userID uuid.UUID) (Flags, error)

	Can(ctx context.Context, ref Ref, userID uuid.UUID, p Permission) (bool, error)
	CanView(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)
	CanEdit(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)
	CanDownload(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)
	CanAnnotate(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)
	CanDelete(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)
	CanShare(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error)

	// Authorize returns ErrForbidden unless the user holds p on ref.
	Authorize(ctx context.Context, ref Ref, userID uuid.UUID, p Permission) error

	GrantToUser(ctx context.Context, ref Ref, userID uuid.UUID, flags Flags) error
	GrantToGroup(ctx context.Context, ref Ref, groupID uuid.UUID, flags Flags) error
	RevokeForUser(ctx context.Context, ref Ref, userID uuid.UUID) error
	RevokeForGroup(ctx context.Context, ref Ref, groupID uuid.UUID) error

	Permissions(ctx context.Context, ref Ref) ([]Record, error)
	Accessible(ctx context.Context, userID uuid.UUID) ([]Record, error)
}

type engine struct {
	store  Store
	retry  repository.RetryConfig
	logger *slog.Logger
}

// New creates the access engine over store. Mutations retry on
// concurrency conflicts according to retry.
func New(store Store, retry repository.RetryConfig, logger *slog.Logger) System {
	return &engine{
		store:  store,
		retry:  retry,
		logger: logger.With("system", "access"),
	}
}

func (e *engine) IsOwner(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	res, err := e.store.Resource(ctx, ref)
	if err != nil {
		return false, err
	}
	return res.OwnerID == userID, nil
}

func (e *engine) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := e.store.Subject(ctx, userID)
	if errors.Is(err, ErrSubjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.Role.IsAdmin(), nil
}

func (e *engine) Effective(ctx context.Context, ref Ref, userID uuid.UUID) (Flags, error) {
	res, err := e.store.Resource(ctx, ref)
	if err != nil {
		return Flags{}, err
	}

	admin, err := e.IsAdmin(ctx, userID)
	if err != nil {
		return Flags{}, err
	}
	if admin || res.OwnerID == userID {
		return All(), nil
	}

	item, err := e.store.Item(ctx, ref, userID)
	if err != nil {
		return Flags{}, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return Flags{}, nil
	}
	return item.Flags, nil
}

func (e *engine) Can(ctx context.Context, ref Ref, userID uuid.UUID, p Permission) (bool, error) {
	flags, err := e.Effective(ctx, ref, userID)
	if err != nil {
		return false, err
	}
	return flags.Has(p), nil
}

func (e *engine) CanView(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	return e.Can(ctx, ref, userID, PermView)
}

func (e *engine) CanEdit(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	return e.Can(ctx, ref, userID, PermEdit)
}

func (e *engine) CanDownload(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	return e.Can(ctx, ref, userID, PermDownload)
}

func (e *engine) CanAnnotate(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	return e.Can(ctx, ref, userID, PermAnnotate)
}

func (e *engine) CanDelete(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	return e.Can(ctx, ref, userID, PermDelete)
}

func (e *engine) CanShare(ctx context.Context, ref Ref, userID uuid.UUID) (bool, error) {
	return e.Can(ctx, ref, userID, PermShare)
}

func (e *engine) Authorize(ctx context.Context, ref Ref, userID uuid.UUID, p Permission) error {
	ok, err := e.Can(ctx, ref, userID, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, ref, p)
	}
	return nil
}

func (e *engine) GrantToUser(ctx context.Context, ref Ref, userID uuid.UUID, flags Flags) error {
	if !flags.Any() {
		return ErrEmptyGrant
	}

	err := e.mutate(ctx, "grant", func(ctx context.Context, tx Tx) error {
		if _, err := tx.Resource(ctx, ref); err != nil {
			return err
		}

		list, err := tx.List(ctx, ref)
		if err != nil {
			return err
		}
		if err := tx.Put(ctx, list, userID, flags); err != nil {
			return err
		}
		return tx.Save(ctx, list)
	})
	if err != nil {
		return err
	}

	e.logger.Info("permission granted",
		"resource", ref.String(),
		"user_id", userID,
		"level", flags.Level().String())
	return nil
}

func (e *engine) GrantToGroup(ctx context.Context, ref Ref, groupID uuid.UUID, flags Flags) error {
	if !flags.Any() {
		return ErrEmptyGrant
	}

	var members int
	err := e.mutate(ctx, "group grant", func(ctx context.Context, tx Tx) error {
		if _, err := tx.Resource(ctx, ref); err != nil {
			return err
		}

		roster, err := tx.Members(ctx, groupID)
		if err != nil {
			return err
		}

		list, err := tx.List(ctx, ref)
		if err != nil {
			return err
		}

		for _, userID := range roster {
			if err := tx.Put(ctx, list, userID, flags); err != nil {
				return fmt.Errorf("grant member %s: %w", userID, err)
			}
		}

		members = len(roster)
		return tx.Save(ctx, list)
	})
	if err != nil {
		return err
	}

	e.logger.Info("group permission granted",
		"resource", ref.String(),
		"group_id", groupID,
		"members", members,
		"level", flags.Level().String())
	return nil
}

func (e *engine) RevokeForUser(ctx context.Context, ref Ref, userID uuid.UUID) error {
	err := e.mutate(ctx, "revoke", func(ctx context.Context, tx Tx) error {
		if _, err := tx.Resource(ctx, ref); err != nil {
			return err
		}

		list, err := tx.List(ctx, ref)
		if err != nil {
			return err
		}
		if err := tx.Remove(ctx, list, userID); err != nil {
			return err
		}
		return tx.Save(ctx, list)
	})
	if err != nil {
		return err
	}

	e.logger.Info("permission revoked", "resource", ref.String(), "user_id", userID)
	return nil
}

func (e *engine) RevokeForGroup(ctx context.Context, ref Ref, groupID uuid.UUID) error {
	var members int
	err := e.mutate(ctx, "group revoke", func(ctx context.Context, tx Tx) error {
		if _, err := tx.Resource(ctx, ref); err != nil {
			return err
		}

		roster, err := tx.Members(ctx, groupID)
		if err != nil {
			return err
		}

		list, err := tx.List(ctx, ref)
		if err != nil {
			return err
		}

		for _, userID := range roster {
			if err := tx.Remove(ctx, list, userID); err != nil {
				return fmt.Errorf("revoke member %s: %w", userID, err)
			}
		}

		members = len(roster)
		return tx.Save(ctx, list)
	})
	if err != nil {
		return err
	}

	e.logger.Info("group permission revoked",
		"resource", ref.String(),
		"group_id", groupID,
		"members", members)
	return nil
}

func (e *engine) Permissions(ctx context.Context, ref Ref) ([]Record, error) {
	if _, err := e.store.Resource(ctx, ref); err != nil {
		return nil, err
	}

	records, err := e.store.Records(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return records, nil
}

func (e *engine) Accessible(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	records, err := e.store.Accessible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accessible resources: %w", err)
	}
	return records, nil
}

// mutate runs fn in a fresh transaction per attempt and converts an
// exhausted retry budget into ErrConflict.
func (e *engine) mutate(ctx context.Context, op string, fn func(ctx context.Context, tx Tx) error) error {
	attempt := 0
	err := repository.WithRetry(ctx, e.retry, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			e.logger.Debug("retrying after concurrent modification", "op", op, "attempt", attempt)
		}
		return e.store.Update(ctx, func(tx Tx) error {
			return fn(ctx, tx)
		})
	})

	var exhausted *repository.ErrRetriesExhausted
	if errors.As(err, &exhausted) {
		e.logger.Warn("retries exhausted", "op", op, "attempts", exhausted.Attempts)
		return fmt.Errorf("%w: %s", ErrConflict, op)
	}
	return err
}
