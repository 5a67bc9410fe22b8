package service

import (
	"context"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"logicode/internal/store"

	"go.uber.org/zap"
)

// Seeder restores the initial data set after a reset.
type Seeder interface {
	Seed(ctx context.Context) error
}

type AdminService struct {
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
	store        *store.Accessor
	seeder       Seeder
	log          *zap.Logger
}

// NewAdminService wires the admin operations. seeder may be nil, in which case
// a reset leaves the store empty.
func NewAdminService(
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	s *store.Accessor,
	seeder Seeder,
	log *zap.Logger,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		store:        s,
		seeder:       seeder,
		log:          named(log, "admin"),
	}
}

func (s *AdminService) Stats(ctx context.Context, sess *Session) (*model.ModerationStats, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.ModerationStats{Users: len(users)}
	for _, q := range questions {
		switch q.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusApproved:
			stats.Approved++
		case model.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, sess *Session) ([]model.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// DeleteUser removes a user account. Admins cannot delete themselves, and the
// user's questions and answers stay in place.
func (s *AdminService) DeleteUser(ctx context.Context, sess *Session, userID string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if userID == sess.UserID() {
		return common.Errorf("cannot delete your own account: %w", common.ErrForbidden)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", userID), zap.String("by", sess.UserID()))
	return nil
}

// Reset wipes every key of the store, signing everybody out, then reseeds.
func (s *AdminService) Reset(ctx context.Context, sess *Session) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	s.log.Warn("system data reset", zap.String("by", sess.UserID()))

	if s.seeder == nil {
		return nil
	}
	if err := s.seeder.Seed(ctx); err != nil {
		return fmt.Errorf("failed to reseed store: %w", err)
	}
	return nil
}
