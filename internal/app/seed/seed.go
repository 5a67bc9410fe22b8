// Package seed installs the starter data set: the demo account, the built-in
// challenges and an optional administrator.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/common/security"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"logicode/internal/store"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed challenges.json
var challengesJSON []byte

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
)

type Options struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	HashPasswords bool
}

type Seeder struct {
	store         *store.Accessor
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
	opts          Options
	log           *zap.Logger
}

func New(
	s *store.Accessor,
	userRepo repository.UserRepository,
	challengeRepo repository.ChallengeRepository,
	opts Options,
	log *zap.Logger,
) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{store: s, userRepo: userRepo, challengeRepo: challengeRepo, opts: opts, log: log.Named("seed")}
}

// Challenges returns a fresh copy of the built-in challenge set.
func Challenges() ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := json.Unmarshal(challengesJSON, &challenges); err != nil {
		return nil, fmt.Errorf("seed: decode built-in challenges: %w", err)
	}
	return challenges, nil
}

// DemoUser is the account installed into an empty store.
func DemoUser(now time.Time) model.User {
	return model.User{
		ID:                   "1",
		Name:                 "Usuario Demo",
		Email:                DemoEmail,
		Password:             DemoPassword,
		XP:                   350,
		Streak:               3,
		CompletedChallenges:  []string{"1", "2"},
		InProgressChallenges: []string{"3"},
		Achievements:         []string{"Principiante", "Lógica Básica"},
		CreatedAt:            now.UTC(),
	}
}

// Seed writes each starter collection whose key is absent. Existing data,
// including an empty list, is left alone, so Seed can run on every start.
func (s *Seeder) Seed(ctx context.Context) error {
	hasUsers, err := s.userRepo.Initialized(ctx)
	if err != nil {
		return err
	}
	if !hasUsers {
		demo := DemoUser(time.Now())
		if s.opts.HashPasswords {
			if demo.Password, err = security.HashPassword(demo.Password); err != nil {
				return fmt.Errorf("seed: hash demo password: %w", err)
			}
		}
		if err := s.store.Write(ctx, store.KeyUsers, []model.User{demo}); err != nil {
			return fmt.Errorf("seed: write users: %w", err)
		}
		s.log.Info("seeded demo user", zap.String("email", demo.Email))
	}

	hasChallenges, err := s.challengeRepo.Initialized(ctx)
	if err != nil {
		return err
	}
	if !hasChallenges {
		challenges, err := Challenges()
		if err != nil {
			return err
		}
		if err := s.store.Write(ctx, store.KeyChallenges, challenges); err != nil {
			return fmt.Errorf("seed: write challenges: %w", err)
		}
		s.log.Info("seeded challenges", zap.Int("count", len(challenges)))
	}

	return s.seedAdmin(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.opts.AdminEmail == "" || s.opts.AdminPassword == "" {
		return nil
	}
	_, err := s.userRepo.FindByEmail(ctx, s.opts.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	password := s.opts.AdminPassword
	if s.opts.HashPasswords {
		if password, err = security.HashPassword(password); err != nil {
			return fmt.Errorf("seed: hash admin password: %w", err)
		}
	}
	name := s.opts.AdminName
	if name == "" {
		name = "Administrador"
	}
	level := 1
	admin := &model.User{
		ID:                   uuid.NewString(),
		Name:                 name,
		Email:                s.opts.AdminEmail,
		Password:             password,
		Level:                &level,
		CompletedChallenges:  []string{},
		InProgressChallenges: []string{},
		Achievements:         []string{},
		CreatedAt:            time.Now().UTC(),
		Role:                 model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}
	s.log.Info("seeded admin user", zap.String("email", admin.Email))
	return nil
}
