package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/store"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
)

type credentialStore interface {
	FindByCredentials(email, password string, role models.UserRole) (*models.User, error)
}

// AuthService verifies presented credentials against the record store.
// Passwords are matched in the clear and no session is issued; the caller
// identifies itself on subsequent requests. This exchange is deliberately
// unhardened, matching the rest of the identity model.
type AuthService struct {
	store     credentialStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(st credentialStore, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{store: st, validator: validate, logger: logger}
}

// Login resolves the user matching the given email, password and role.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.store.FindByCredentials(req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Info("login rejected", zap.String("email", req.Email), zap.String("role", string(req.Role)))
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify credentials")
	}

	s.logger.Info("login accepted", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	info := user.Info()
	return &info, nil
}
