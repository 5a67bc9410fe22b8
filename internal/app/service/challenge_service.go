package service

import (
	"context"
	"errors"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"logicode/internal/platform/metrics"
	"strings"

	"go.uber.org/zap"
)

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
	currentRepo   repository.CurrentUserRepository
	log           *zap.Logger
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	userRepo repository.UserRepository,
	currentRepo repository.CurrentUserRepository,
	log *zap.Logger,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		currentRepo:   currentRepo,
		log:           named(log, "challenges"),
	}
}

func (s *ChallengeService) List(ctx context.Context) ([]model.Challenge, error) {
	return s.challengeRepo.List(ctx)
}

// Get looks a challenge up by id, then by title slug.
func (s *ChallengeService) Get(ctx context.Context, ref string) (*model.Challenge, error) {
	c, err := s.challengeRepo.FindByID(ctx, ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return s.challengeRepo.FindBySlug(ctx, ref)
}

// View returns the challenge and marks it in progress for the session user
// unless it is already completed.
func (s *ChallengeService) View(ctx context.Context, sess *Session, ref string) (*model.Challenge, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if sess.User.HasCompleted(c.ID) || sess.User.IsInProgress(c.ID) {
		return c, nil
	}

	user, err := s.userRepo.UpdateProgress(ctx, sess.UserID(), c.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to mark challenge %s in progress: %w", c.ID, err)
	}
	if err := s.refreshSession(ctx, sess, user); err != nil {
		return nil, err
	}
	return c, nil
}

// Submit grades code against the challenge. The first passing submission
// completes the challenge and grants its XP and one streak day; later passing
// submissions are graded but never rewarded again. A failing submission
// changes nothing.
func (s *ChallengeService) Submit(ctx context.Context, sess *Session, ref, code string) (*model.GradeResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	if !Grade(c.ExpectedSolution, code) {
		metrics.GradingsTotal.WithLabelValues("fail").Inc()
		s.log.Debug("submission failed", zap.String("user_id", sess.UserID()), zap.String("challenge_id", c.ID))
		return &model.GradeResult{Passed: false, Output: FailureOutput}, nil
	}
	metrics.GradingsTotal.WithLabelValues("pass").Inc()

	user, rewarded, err := s.userRepo.ApplyReward(ctx, sess.UserID(), c.ID, c.XPReward)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion of challenge %s: %w", c.ID, err)
	}
	if err := s.refreshSession(ctx, sess, user); err != nil {
		return nil, err
	}

	result := &model.GradeResult{Passed: true, Output: c.ExpectedOutput, Rewarded: rewarded}
	if result.Output == "" {
		result.Output = DefaultSuccessOutput
	}
	if rewarded {
		result.XPAwarded = c.XPReward
		metrics.RewardsTotal.Inc()
		s.log.Info("challenge completed",
			zap.String("user_id", user.ID), zap.String("challenge_id", c.ID), zap.Int("xp", user.XP))
	}
	sanitized := user.Sanitized()
	result.User = &sanitized
	return result, nil
}

// Create adds a challenge. Admin only.
func (s *ChallengeService) Create(ctx context.Context, sess *Session, c *model.Challenge) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := validateChallenge(c); err != nil {
		return err
	}
	return s.challengeRepo.Create(ctx, c)
}

// Update replaces the challenge with the same id, keeping its position. Admin only.
func (s *ChallengeService) Update(ctx context.Context, sess *Session, c *model.Challenge) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := validateChallenge(c); err != nil {
		return err
	}
	if err := s.challengeRepo.Update(ctx, c); err != nil {
		return err
	}
	s.log.Info("challenge updated", zap.String("challenge_id", c.ID), zap.String("by", sess.UserID()))
	return nil
}

// refreshSession copies user into the session and, while user is still the
// signed-in user, into the stored signed-in record.
func (s *ChallengeService) refreshSession(ctx context.Context, sess *Session, user *model.User) error {
	sess.User = user.Clone()
	if _, err := s.currentRepo.Refresh(ctx, user); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

func validateChallenge(c *model.Challenge) error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Title) == "" {
		return common.Errorf("challenge id and title are required: %w", common.ErrValidation)
	}
	if err := model.Validate(c); err != nil {
		return common.Errorf("%v: %w", err, common.ErrValidation)
	}
	return nil
}
