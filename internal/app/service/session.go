package service

import (
	"logicode/internal/common"
	"logicode/internal/domain/model"

	"go.uber.org/zap"
)

// Session is the signed-in user an operation runs on behalf of. It carries a
// copy of the user record; operations that change the user refresh it.
type Session struct {
	User model.User
}

func NewSession(user model.User) *Session {
	return &Session{User: user.Clone()}
}

// SystemSession acts as an administrator that is not a stored user, for
// maintenance tooling.
func SystemSession() *Session {
	return &Session{User: model.User{ID: "system", Name: "system", Role: model.RoleAdmin}}
}

func (s *Session) UserID() string {
	return s.User.ID
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.IsAdmin()
}

func requireSession(sess *Session) error {
	if sess == nil {
		return common.ErrNoSession
	}
	return nil
}

func requireAdmin(sess *Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !sess.IsAdmin() {
		return common.Errorf("admin access required: %w", common.ErrForbidden)
	}
	return nil
}

func named(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log.Named(name)
}
