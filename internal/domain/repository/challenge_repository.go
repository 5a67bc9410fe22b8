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

type ChallengeRepository interface {
	List(ctx context.Context) ([]model.Challenge, error)
	FindByID(ctx context.Context, id string) (*model.Challenge, error)
	FindBySlug(ctx context.Context, slug string) (*model.Challenge, error)
	Create(ctx context.Context, challenge *model.Challenge) error
	Update(ctx context.Context, challenge *model.Challenge) error
	Delete(ctx context.Context, id string) error
	Initialized(ctx context.Context) (bool, error)
}

type kvChallengeRepository struct {
	challenges collection[model.Challenge]
}

func NewKVChallengeRepository(s *store.Accessor, log *zap.Logger) ChallengeRepository {
	return &kvChallengeRepository{
		challenges: newCollection(s, store.KeyChallenges, "challenge", func(c *model.Challenge) string { return c.ID }, log),
	}
}

func (r *kvChallengeRepository) List(ctx context.Context) ([]model.Challenge, error) {
	challenges, _, err := r.challenges.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvChallengeRepository.List: %w", err)
	}
	return challenges, nil
}

func (r *kvChallengeRepository) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	c, err := r.challenges.find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("kvChallengeRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *kvChallengeRepository) FindBySlug(ctx context.Context, slug string) (*model.Challenge, error) {
	challenges, _, err := r.challenges.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvChallengeRepository.FindBySlug: %w", err)
	}
	i := slices.IndexFunc(challenges, func(c model.Challenge) bool { return c.Slug() == slug })
	if i < 0 {
		return nil, fmt.Errorf("challenge %q: %w", slug, common.ErrNotFound)
	}
	return &challenges[i], nil
}

func (r *kvChallengeRepository) Create(ctx context.Context, challenge *model.Challenge) error {
	if err := r.challenges.insert(ctx, challenge.Clone()); err != nil {
		return fmt.Errorf("kvChallengeRepository.Create: %w", err)
	}
	return nil
}

func (r *kvChallengeRepository) Update(ctx context.Context, challenge *model.Challenge) error {
	if err := r.challenges.replace(ctx, challenge.Clone()); err != nil {
		return fmt.Errorf("kvChallengeRepository.Update: %w", err)
	}
	return nil
}

func (r *kvChallengeRepository) Delete(ctx context.Context, id string) error {
	if err := r.challenges.remove(ctx, id); err != nil {
		return fmt.Errorf("kvChallengeRepository.Delete: %w", err)
	}
	return nil
}

func (r *kvChallengeRepository) Initialized(ctx context.Context) (bool, error) {
	return r.challenges.store.Exists(ctx, store.KeyChallenges)
}
