// Package app wires the store, repositories and services shared by the HTTP
// server and the admin CLI.
package app

import (
	"context"
	"logicode/internal/app/seed"
	"logicode/internal/app/service"
	"logicode/internal/common/security"
	"logicode/internal/domain/repository"
	"logicode/internal/platform/config"
	"logicode/internal/store"

	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Log    *zap.Logger
	Store  *store.Accessor
	Tokens *security.TokenIssuer
	Seeder *seed.Seeder

	Users      repository.UserRepository
	Challenges repository.ChallengeRepository
	Questions  repository.QuestionRepository
	Answers    repository.AnswerRepository
	Current    repository.CurrentUserRepository

	Auth      *service.AuthService
	Challenge *service.ChallengeService
	Question  *service.QuestionService
	Admin     *service.AdminService
	Dashboard *service.DashboardService

	closeStore func() error
}

// New opens the configured store and builds every service on top of it.
// Close must be called to release the store.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	s, closeStore, err := store.Open(ctx, cfg, log.Named("store"))
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Log:        log,
		Store:      s,
		Tokens:     security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp),
		Users:      repository.NewKVUserRepository(s, log),
		Challenges: repository.NewKVChallengeRepository(s, log),
		Questions:  repository.NewKVQuestionRepository(s, log),
		Answers:    repository.NewKVAnswerRepository(s, log),
		Current:    repository.NewKVCurrentUserRepository(s, log),
		closeStore: closeStore,
	}

	a.Seeder = seed.New(s, a.Users, a.Challenges, seed.Options{
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		HashPasswords: cfg.HashPasswords,
	}, log)

	var seeder service.Seeder
	if cfg.SeedDemoData {
		seeder = a.Seeder
	}

	a.Auth = service.NewAuthService(a.Users, a.Current, a.Tokens, cfg.HashPasswords, log)
	a.Challenge = service.NewChallengeService(a.Challenges, a.Users, a.Current, log)
	a.Question = service.NewQuestionService(a.Questions, a.Answers, log)
	a.Admin = service.NewAdminService(a.Users, a.Questions, s, seeder, log)
	a.Dashboard = service.NewDashboardService(a.Challenges, a.Users)
	return a, nil
}

// Seed installs the starter data when SeedDemoData is enabled.
func (a *App) Seed(ctx context.Context) error {
	if !a.Config.SeedDemoData {
		return nil
	}
	return a.Seeder.Seed(ctx)
}

func (a *App) Close() error {
	return a.closeStore()
}
