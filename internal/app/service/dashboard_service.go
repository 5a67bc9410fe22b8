package service

import (
	"cmp"
	"context"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"slices"
)

const recommendedLimit = 6

type DashboardService struct {
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
}

func NewDashboardService(challengeRepo repository.ChallengeRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{challengeRepo: challengeRepo, userRepo: userRepo}
}

// Dashboard summarizes the session user's level and challenge lists.
func (s *DashboardService) Dashboard(ctx context.Context, sess *Session) (*model.Dashboard, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	challenges, err := s.challengeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	u := sess.User
	level := u.CurrentLevel()
	d := &model.Dashboard{
		User:            u.Sanitized(),
		Level:           level,
		XPForNextLevel:  level * model.XPPerLevel,
		LevelProgress:   u.XP % model.XPPerLevel,
		Recommended:     []model.Challenge{},
		InProgress:      []model.Challenge{},
		Completed:       []model.Challenge{},
		TotalChallenges: len(challenges),
	}
	for _, c := range challenges {
		switch {
		case u.HasCompleted(c.ID):
			d.Completed = append(d.Completed, c)
		case u.IsInProgress(c.ID):
			d.InProgress = append(d.InProgress, c)
		}
		if !u.HasCompleted(c.ID) && len(d.Recommended) < recommendedLimit {
			d.Recommended = append(d.Recommended, c)
		}
	}
	return d, nil
}

// Leaderboard ranks users by XP, then streak, then name. limit <= 0 means all.
func (s *DashboardService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(users, func(a, b model.User) int {
		if c := cmp.Compare(b.XP, a.XP); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Streak, a.Streak); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}

	entries := make([]model.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = model.LeaderboardEntry{
			Rank:                i + 1,
			UserID:              u.ID,
			Name:                u.Name,
			XP:                  u.XP,
			Level:               u.CurrentLevel(),
			Streak:              u.Streak,
			ChallengesCompleted: len(u.CompletedChallenges),
		}
	}
	return entries, nil
}
