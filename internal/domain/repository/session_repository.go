package repository

import (
	"context"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"logicode/internal/store"

	"go.uber.org/zap"
)

// CurrentUserRepository holds the single signed-in user record of the store.
type CurrentUserRepository interface {
	// Get returns common.ErrNotFound when nobody is signed in.
	Get(ctx context.Context) (*model.User, error)
	Set(ctx context.Context, user *model.User) error
	// Refresh overwrites the signed-in record with user only while that
	// record belongs to user.ID. It reports whether it wrote.
	Refresh(ctx context.Context, user *model.User) (bool, error)
	Clear(ctx context.Context) error
	// Release clears the signed-in record only while it belongs to userID.
	Release(ctx context.Context, userID string) (bool, error)
}

type kvCurrentUserRepository struct {
	store *store.Accessor
	log   *zap.Logger
}

func NewKVCurrentUserRepository(s *store.Accessor, log *zap.Logger) CurrentUserRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &kvCurrentUserRepository{store: s, log: log.Named("repository")}
}

func (r *kvCurrentUserRepository) Get(ctx context.Context) (*model.User, error) {
	user, found, err := store.Read[model.User](ctx, r.store, store.KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("kvCurrentUserRepository.Get: %w", err)
	}
	if !found {
		return nil, common.ErrNotFound
	}
	if err := model.Validate(user); err != nil {
		r.log.Warn("ignoring invalid current user record", zap.Error(err))
		return nil, common.ErrNotFound
	}
	return &user, nil
}

func (r *kvCurrentUserRepository) Set(ctx context.Context, user *model.User) error {
	err := r.store.Mutate(func() error {
		return r.store.Write(ctx, store.KeyCurrentUser, user)
	})
	if err != nil {
		return fmt.Errorf("kvCurrentUserRepository.Set: %w", err)
	}
	return nil
}

func (r *kvCurrentUserRepository) Refresh(ctx context.Context, user *model.User) (bool, error) {
	written := false
	err := r.store.Mutate(func() error {
		current, found, err := store.Read[model.User](ctx, r.store, store.KeyCurrentUser)
		if err != nil || !found || current.ID != user.ID {
			return err
		}
		if err := r.store.Write(ctx, store.KeyCurrentUser, user); err != nil {
			return err
		}
		written = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("kvCurrentUserRepository.Refresh: %w", err)
	}
	return written, nil
}

func (r *kvCurrentUserRepository) Clear(ctx context.Context) error {
	err := r.store.Mutate(func() error {
		return r.store.Remove(ctx, store.KeyCurrentUser)
	})
	if err != nil {
		return fmt.Errorf("kvCurrentUserRepository.Clear: %w", err)
	}
	return nil
}

func (r *kvCurrentUserRepository) Release(ctx context.Context, userID string) (bool, error) {
	released := false
	err := r.store.Mutate(func() error {
		current, found, err := store.Read[model.User](ctx, r.store, store.KeyCurrentUser)
		if err != nil || !found || current.ID != userID {
			return err
		}
		if err := r.store.Remove(ctx, store.KeyCurrentUser); err != nil {
			return err
		}
		released = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("kvCurrentUserRepository.Release: %w", err)
	}
	return released, nil
}
