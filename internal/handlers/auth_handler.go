package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// AuthHandler handles registration, login and the caller's profile.
type AuthHandler struct {
	userService   services.UserServicer
	authService   services.AuthServicer
	auditService  services.AuditServicer
	genericErrors bool
}

// NewAuthHandler creates a new AuthHandler. When genericLoginErrors is set,
// unknown emails and wrong passwords are reported identically.
func NewAuthHandler(userService services.UserServicer, authService services.AuthServicer, auditService services.AuditServicer, genericLoginErrors bool) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		authService:   authService,
		auditService:  auditService,
		genericErrors: genericLoginErrors,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse represents the login response with token
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ProfileResponse wraps the authenticated user's profile.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create an account with name, email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} MessageResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input or user already exists"
// @Failure     429 {object} ErrorResponse "Too many requests"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			logger.Get().Infow("registration rejected: duplicate email", "email", req.Email)
		}
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("user registered", "user_id", user.ID, "email", user.Email)
	h.auditService.Log(c.Request.Context(), user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, MessageResponse{Message: "User created successfully"})
}

// Login handles user login
// @Summary     Login user
// @Description Exchange email and password for a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     429 {object} ErrorResponse "Too many requests"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.genericErrors && errors.Is(err, apperrors.ErrUserNotFound) {
			err = apperrors.ErrInvalidCredentials
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), result.User.ID, "LOGIN", "user", result.User.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toUserResponse(result.User),
	})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ProfileResponse "User profile"
// @Failure     401 {object} ErrorResponse "No token"
// @Failure     403 {object} ErrorResponse "Invalid token"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /api/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: toUserResponse(user)})
}
