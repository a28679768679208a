package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mf360/internal/common"
	"mf360/internal/models"
	"mf360/internal/services"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func runTokenAuth(t *testing.T, authHeader string, repo *mockUserRepo, authSvc services.AuthService) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/investors", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := TokenAuth(authSvc, repo)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestTokenAuth_MissingHeader(t *testing.T) {
	authSvc := services.NewAuthService("test-secret", time.Hour)
	err := runTokenAuth(t, "", &mockUserRepo{}, authSvc)

	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "Missing token", he.Message)
}

func TestTokenAuth_NoBearerPrefix(t *testing.T) {
	authSvc := services.NewAuthService("test-secret", time.Hour)
	err := runTokenAuth(t, "Token abc123", &mockUserRepo{}, authSvc)

	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "Invalid token format", he.Message)
}

func TestTokenAuth_InvalidToken(t *testing.T) {
	authSvc := services.NewAuthService("test-secret", time.Hour)
	err := runTokenAuth(t, "Bearer not-a-jwt", &mockUserRepo{}, authSvc)

	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "Could not validate credentials", he.Message)
}

func TestTokenAuth_ValidTokenMissingUser(t *testing.T) {
	authSvc := services.NewAuthService("test-secret", time.Hour)
	userID := uuid.New()
	token, err := authSvc.IssueToken(userID)
	require.NoError(t, err)

	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, userID).Return(nil, pgx.ErrNoRows).Once()

	err = runTokenAuth(t, "Bearer "+token, repo, authSvc)

	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, "User not found", he.Message)
	repo.AssertExpectations(t)
}

func TestTokenAuth_ValidTokenLoadsUserIntoContext(t *testing.T) {
	authSvc := services.NewAuthService("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "mfd@example.com"}
	token, err := authSvc.IssueToken(user.ID)
	require.NoError(t, err)

	repo := &mockUserRepo{}
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/investors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser *models.User
	handler := TokenAuth(authSvc, repo)(func(c echo.Context) error {
		u, ok := common.GetCurrentUserFromContext(c.Request().Context())
		require.True(t, ok)
		gotUser = u
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, user, gotUser)
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
