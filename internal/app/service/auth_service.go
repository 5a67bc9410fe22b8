package service

import (
	"context"
	"errors"
	"fmt"
	"logicode/internal/common"
	"logicode/internal/common/security"
	"logicode/internal/domain/model"
	"logicode/internal/domain/repository"
	"logicode/internal/platform/metrics"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo      repository.UserRepository
	currentRepo   repository.CurrentUserRepository
	tokens        *security.TokenIssuer
	hashPasswords bool
	log           *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	currentRepo repository.CurrentUserRepository,
	tokens *security.TokenIssuer,
	hashPasswords bool,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		currentRepo:   currentRepo,
		tokens:        tokens,
		hashPasswords: hashPasswords,
		log:           named(log, "auth"),
	}
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User    model.User `json:"user"`
	Token   string     `json:"token"`
	Session *Session   `json:"-"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if blank(req.Name, req.Email, req.Password, req.ConfirmPassword) {
		s.authEvent("register", "invalid")
		return nil, common.Errorf("name, email and password are required: %w", common.ErrValidation)
	}
	if req.Password != req.ConfirmPassword {
		s.authEvent("register", "invalid")
		return nil, common.Errorf("passwords do not match: %w", common.ErrValidation)
	}

	password := req.Password
	if s.hashPasswords {
		hashed, err := security.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		password = hashed
	}

	level := 1
	user := &model.User{
		ID:                   uuid.NewString(),
		Name:                 req.Name,
		Email:                req.Email,
		Password:             password,
		Level:                &level,
		CompletedChallenges:  []string{},
		InProgressChallenges: []string{},
		Achievements:         []string{},
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			s.authEvent("register", "duplicate")
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))
	s.authEvent("register", "success")

	return s.startSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if blank(req.Email, req.Password) {
		s.authEvent("login", "invalid")
		return nil, common.Errorf("email and password are required: %w", common.ErrValidation)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) == 0 {
		s.authEvent("login", "no_users")
		return nil, common.ErrNoUsersRegistered
	}

	var user *model.User
	for i := range users {
		if users[i].Email == req.Email {
			user = &users[i]
			break
		}
	}
	if user == nil || !security.CheckPassword(req.Password, user.Password) {
		s.authEvent("login", "failure")
		return nil, common.ErrInvalidCredentials
	}
	s.authEvent("login", "success")

	return s.startSession(ctx, user)
}

// Logout clears the signed-in pointer when it still belongs to sess. A nil
// sess clears it unconditionally. User records are untouched.
func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		if err := s.currentRepo.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		s.authEvent("logout", "success")
		return nil
	}

	released, err := s.currentRepo.Release(ctx, sess.UserID())
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if !released {
		s.authEvent("logout", "stale")
		return common.ErrNoSession
	}
	s.authEvent("logout", "success")
	return nil
}

// Current returns the signed-in session or common.ErrNoSession.
func (s *AuthService) Current(ctx context.Context) (*Session, error) {
	user, err := s.currentRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return NewSession(*user), nil
}

// Resolve returns the signed-in session only if it belongs to userID, so
// tokens issued before a logout or a later login stop working.
func (s *AuthService) Resolve(ctx context.Context, userID string) (*Session, error) {
	sess, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess.UserID() != userID {
		return nil, common.ErrNoSession
	}
	return sess, nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*AuthResponse, error) {
	if err := s.currentRepo.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user.Sanitized(), Token: token, Session: NewSession(*user)}, nil
}

func (s *AuthService) authEvent(event, outcome string) {
	metrics.AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
