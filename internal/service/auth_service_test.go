package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	"github.com/noah-isme/sma-discipline-api/internal/store"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
)

func TestAuthServiceLogin(t *testing.T) {
	st := store.New()
	st.UpsertUser(models.User{ID: "u1", Name: "Alice", Role: models.RoleStudent, Email: "alice@example.com", Password: "pw"})
	svc := NewAuthService(st, validator.New(), zap.NewNop())

	user, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "pw", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	st := store.New()
	st.UpsertUser(models.User{ID: "u1", Name: "Alice", Role: models.RoleStudent, Email: "alice@example.com", Password: "pw"})
	svc := NewAuthService(st, validator.New(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "wrong", Role: models.RoleStudent})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginWrongRole(t *testing.T) {
	st := store.New()
	st.UpsertUser(models.User{ID: "u1", Name: "Alice", Role: models.RoleStudent, Email: "alice@example.com", Password: "pw"})
	svc := NewAuthService(st, validator.New(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "pw", Role: models.RoleAdmin})
	assert.Error(t, err)
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc := NewAuthService(store.New(), validator.New(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "pw", Role: models.RoleStudent})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
