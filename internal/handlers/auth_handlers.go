package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"mf360/internal/common"
	"mf360/internal/models"
	"mf360/internal/repositories"
	"mf360/internal/services"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
	investorSvc services.InvestorService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository, investorSvc services.InvestorService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
		investorSvc: investorSvc,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// AuthResponse carries the user plus a fresh session token
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Signup registers a distributor account. The first signup against an empty
// roster also seeds the demo book.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateRequiredString(req.FullName, "full_name"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	log.Printf("Signup attempt for email: %s", req.Email)

	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("Error during signup for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}
	if existing != nil {
		log.Printf("Signup failed: email %s already registered", req.Email)
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}

	hashed, err := h.authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error during signup for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}

	user := &models.User{
		ID:                 uuid.New(),
		Email:              req.Email,
		FullName:           req.FullName,
		HashedPassword:     hashed,
		Role:               models.RoleMFD,
		SubscriptionActive: true,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("Error during signup for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}

	if err := h.investorSvc.EnsureSeeded(ctx); err != nil {
		// The account exists; a failed seed must not fail the signup.
		log.Printf("Failed to seed investors after signup: %v", err)
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		log.Printf("Error during signup for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}

	log.Printf("User %s signed up successfully", user.Email)
	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login with email and password. Unknown email and wrong
// password produce the same response to avoid account enumeration.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to look up user")
	}

	if !h.authService.VerifyPassword(req.Password, user.HashedPassword) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.authService.IssueToken(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Me returns the authenticated user loaded by the middleware.
func (h *AuthHandlers) Me(c echo.Context) error {
	user, ok := common.GetCurrentUserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(http.StatusOK, user)
}

// ForgotPasswordRequest represents the forgot-password payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword is a non-functional placeholder: it never mutates
// credentials and answers identically whether or not the account exists.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	const message = "If the email exists, a reset link has been sent"

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return c.JSON(http.StatusOK, map[string]string{"message": message})
	}

	resetToken := uuid.NewString()
	log.Printf("Password reset token for %s: %s", req.Email, resetToken)

	return c.JSON(http.StatusOK, map[string]string{
		"message":    message,
		"mock_token": resetToken,
	})
}

// ResetPasswordRequest represents the reset-password payload
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword accepts well-formed input and performs no state change.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	log.Printf("Password reset attempted with token: %s", req.Token)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password has been reset successfully (mock)",
	})
}
