package service

import (
	"context"
	"logicode/internal/app/seed"
	"logicode/internal/common/security"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"logicode/internal/store"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type env struct {
	kv          *store.MemoryKV
	store       *store.Accessor
	users       repository.UserRepository
	challenges  repository.ChallengeRepository
	questions   repository.QuestionRepository
	answers     repository.AnswerRepository
	currentUser repository.CurrentUserRepository

	auth      *AuthService
	challenge *ChallengeService
	question  *QuestionService
	admin     *AdminService
	dashboard *DashboardService
	seeder    *seed.Seeder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zaptest.NewLogger(t)
	kv := store.NewMemoryKV()
	s := store.NewAccessor(kv, log)
	e := &env{
		kv:          kv,
		store:       s,
		users:       repository.NewKVUserRepository(s, log),
		challenges:  repository.NewKVChallengeRepository(s, log),
		questions:   repository.NewKVQuestionRepository(s, log),
		answers:     repository.NewKVAnswerRepository(s, log),
		currentUser: repository.NewKVCurrentUserRepository(s, log),
	}
	tokens := security.NewTokenIssuer([]byte("test-secret"), time.Hour)
	e.seeder = seed.New(s, e.users, e.challenges, seed.Options{}, log)
	e.auth = NewAuthService(e.users, e.currentUser, tokens, false, log)
	e.challenge = NewChallengeService(e.challenges, e.users, e.currentUser, log)
	e.question = NewQuestionService(e.questions, e.answers, log)
	e.admin = NewAdminService(e.users, e.questions, s, e.seeder, log)
	e.dashboard = NewDashboardService(e.challenges, e.users)
	return e
}

// seeded returns an env holding the demo user and the built-in challenges.
func seeded(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	require.NoError(t, e.seeder.Seed(context.Background()))
	return e
}

func (e *env) register(t *testing.T, name, email, password string) *Session {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Name: name, Email: email, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return resp.Session
}

func (e *env) adminSession(t *testing.T) *Session {
	t.Helper()
	sess := e.register(t, "Admin", "admin@x.com", "root")
	sess.User.Role = model.RoleAdmin
	require.NoError(t, e.users.Update(context.Background(), &sess.User))
	return sess
}
