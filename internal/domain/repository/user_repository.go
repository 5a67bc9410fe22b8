package repository

import (
	"context"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"logicode/internal/store"
	"slices"

	"go.uber.org/zap"
)

type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	// UpdateProgress records a challenge as completed or in progress.
	// Repeating a call with the same arguments changes nothing.
	UpdateProgress(ctx context.Context, userID, challengeID string, completed bool) (*model.User, error)
	// ApplyReward completes challengeID for the user and, only the first
	// time, adds xp and one streak day. rewarded reports whether it did.
	ApplyReward(ctx context.Context, userID, challengeID string, xp int) (user *model.User, rewarded bool, err error)
	// Initialized reports whether the users key holds anything at all.
	Initialized(ctx context.Context) (bool, error)
}

type kvUserRepository struct {
	users collection[model.User]
}

func NewKVUserRepository(s *store.Accessor, log *zap.Logger) UserRepository {
	return &kvUserRepository{
		users: newCollection(s, store.KeyUsers, "user", func(u *model.User) string { return u.ID }, log),
	}
}

func (r *kvUserRepository) List(ctx context.Context) ([]model.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvUserRepository.List: %w", err)
	}
	return users, nil
}

func (r *kvUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := r.users.find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("kvUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *kvUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvUserRepository.FindByEmail: %w", err)
	}
	i := slices.IndexFunc(users, func(u model.User) bool { return u.Email == email })
	if i < 0 {
		return nil, common.ErrNotFound
	}
	return &users[i], nil
}

func (r *kvUserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.users.update(ctx, func(users []model.User) ([]model.User, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, fmt.Errorf("%s: %w", user.Email, common.ErrDuplicateEmail)
			}
			if u.ID == user.ID {
				return nil, fmt.Errorf("user %s already exists: %w", user.ID, common.ErrConflict)
			}
		}
		return append(users, user.Clone()), nil
	})
	if err != nil {
		return fmt.Errorf("kvUserRepository.Create: %w", err)
	}
	return nil
}

func (r *kvUserRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.users.replace(ctx, user.Clone()); err != nil {
		return fmt.Errorf("kvUserRepository.Update: %w", err)
	}
	return nil
}

func (r *kvUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.users.remove(ctx, id); err != nil {
		return fmt.Errorf("kvUserRepository.Delete: %w", err)
	}
	return nil
}

func (r *kvUserRepository) UpdateProgress(ctx context.Context, userID, challengeID string, completed bool) (*model.User, error) {
	var updated model.User
	err := r.modify(ctx, userID, func(u *model.User) bool {
		var changed bool
		if completed {
			changed = u.MarkCompleted(challengeID)
		} else {
			changed = u.MarkInProgress(challengeID)
		}
		updated = u.Clone()
		return changed
	})
	if err != nil {
		return nil, fmt.Errorf("kvUserRepository.UpdateProgress: %w", err)
	}
	return &updated, nil
}

func (r *kvUserRepository) ApplyReward(ctx context.Context, userID, challengeID string, xp int) (*model.User, bool, error) {
	var (
		updated  model.User
		rewarded bool
	)
	err := r.modify(ctx, userID, func(u *model.User) bool {
		if !u.HasCompleted(challengeID) {
			u.XP += xp
			u.Streak++
			rewarded = true
		}
		changed := u.MarkCompleted(challengeID)
		updated = u.Clone()
		return changed
	})
	if err != nil {
		return nil, false, fmt.Errorf("kvUserRepository.ApplyReward: %w", err)
	}
	return &updated, rewarded, nil
}

func (r *kvUserRepository) Initialized(ctx context.Context) (bool, error) {
	return r.users.store.Exists(ctx, store.KeyUsers)
}

// modify applies fn to one user under the collection lock and writes back only
// when fn reports a change.
func (r *kvUserRepository) modify(ctx context.Context, userID string, fn func(u *model.User) bool) error {
	return r.users.update(ctx, func(users []model.User) ([]model.User, error) {
		i := r.users.index(users, userID)
		if i < 0 {
			return nil, r.users.notFound(userID)
		}
		if !fn(&users[i]) {
			return nil, errUnchanged
		}
		return users, nil
	})
}
