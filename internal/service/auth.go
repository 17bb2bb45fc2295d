package service

import (
	"context"
	"fmt"

	"forumview/internal/session"
	"forumview/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type AuthService struct {
	auth  Authenticator
	store *session.Store
}

func NewAuthService(auth Authenticator, store *session.Store) *AuthService {
	return &AuthService{auth: auth, store: store}
}

// Login authenticates and persists the session for later runs.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*session.Session, error) {
	if err := validator.New().Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	sess, err := s.auth.Login(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error("login failed", "username", req.Username, "error", err)
		return nil, err
	}
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) Logout() error {
	return s.store.Clear()
}
