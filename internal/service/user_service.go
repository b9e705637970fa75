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

type userStore interface {
	ListUsers() []models.User
	GetUser(id string) (*models.User, error)
	UpsertUser(user models.User) (*models.User, bool)
	DeleteUser(id string) error
	Revision() uint64
}

// UpsertUserRequest carries user fields for create-or-update. When ID matches
// an existing user the non-empty fields are merged in place, otherwise a new
// user is appended with a fresh id.
type UpsertUserRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=admin student"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password"`
}

// UserService handles roster management.
type UserService struct {
	store     userStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(st userStore, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: st, validator: validate, logger: logger}
}

// List returns all users in insertion order, credentials stripped.
func (s *UserService) List(ctx context.Context) []models.UserInfo {
	users := s.store.ListUsers()
	out := make([]models.UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, u.Info())
	}
	return out
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserInfo, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	info := user.Info()
	return &info, nil
}

// Upsert creates or updates a user. New users must carry a password.
func (s *UserService) Upsert(ctx context.Context, req UpsertUserRequest) (*models.UserInfo, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if req.ID == "" && req.Password == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "new users require a password")
	}

	user, created := s.store.UpsertUser(models.User{
		ID:       req.ID,
		Name:     req.Name,
		Role:     req.Role,
		Email:    req.Email,
		Password: req.Password,
	})
	if created {
		s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	} else {
		s.logger.Info("user updated", zap.String("user_id", user.ID))
	}
	info := user.Info()
	return &info, created, nil
}

// Delete removes a user together with the user's cases and appeals.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// Revision exposes the store revision for response metadata.
func (s *UserService) Revision() uint64 {
	return s.store.Revision()
}
