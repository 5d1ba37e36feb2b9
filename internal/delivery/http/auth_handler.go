package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/delivery/http/dto"
	"papertrade/internal/domain"
	"papertrade/internal/middleware"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userRepo     domain.UserRepository
	ledgerRepo   domain.LedgerRepository
	startingCash decimal.Decimal
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo domain.UserRepository, ledgerRepo domain.LedgerRepository, startingCash decimal.Decimal) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		ledgerRepo:   ledgerRepo,
		startingCash: startingCash,
	}
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	if len(req.Password) < 6 {
		return BadRequestResponse(c, "Password must be at least 6 characters")
	}

	if req.Password != req.Confirmation {
		return BadRequestResponse(c, "Passwords do not match")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to hash password", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Cash:         h.startingCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return DomainErrorResponse(c, err)
		}
		return InternalServerErrorResponse(c, "Failed to create user", err)
	}

	// Record the opening deposit so the balance stays derivable from the
	// ledger alone
	deposit := &domain.CashEvent{
		ID:        uuid.New(),
		UserID:    user.ID,
		Kind:      domain.CashEventDeposit,
		Amount:    h.startingCash,
		CreatedAt: now.Truncate(time.Second),
	}
	if err := h.ledgerRepo.AppendCashEvent(ctx, deposit); err != nil {
		log.Printf("ERROR: Failed to record opening deposit for %s: %v", user.Username, err)
	}

	return CreatedResponse(c, dto.UserOutput{
		ID:       user.ID.String(),
		Username: user.Username,
		Cash:     user.Cash.StringFixed(2),
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Unknown username and wrong password answer identically
	user, err := h.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return DomainErrorResponse(c, domain.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return DomainErrorResponse(c, domain.ErrInvalidCredentials)
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}

	// Set HTTP-only cookie
	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, dto.LoginResponse{
		Token: token,
		User: &dto.UserOutput{
			ID:       user.ID.String(),
			Username: user.Username,
			Cash:     user.Cash.StringFixed(2),
		},
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	// Clear the cookie
	cookie := &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1, // Delete cookie
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, map[string]string{"message": "Logged out"})
}
