package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/digitup/immo-api/internal/middleware"
	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/response"
	"github.com/digitup/immo-api/internal/service"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  *service.AuthService
	loginLimiter *middleware.LoginLimiter
}

func NewAuthHandler(authService *service.AuthService, loginLimiter *middleware.LoginLimiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
	}
}

type RegisterRequest struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"required"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	Role                 string `json:"role" binding:"required,oneof=admin agent guest"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.ValidationFailed(c, response.BindingErrors(err))
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, token, err := h.authService.Register(
		c.Request.Context(),
		req.Name, req.Email, req.Password, req.PasswordConfirmation,
		models.Role(req.Role),
	)
	if err != nil {
		var fieldErrors service.FieldErrors
		if errors.As(err, &fieldErrors) {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		logger.Log.Error("Registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	response.OK(c, http.StatusCreated, "Account created successfully. Welcome!", gin.H{
		"user":         userResource(user),
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, response.BindingErrors(err))
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()

	blocked, retryAfter, err := h.loginLimiter.TooManyAttempts(ctx, req.Email, ip)
	if err != nil {
		logger.Log.Error("Login limiter check failed", zap.Error(err))
	} else if blocked {
		seconds := int(retryAfter.Seconds())
		response.RateLimited(c,
			fmt.Sprintf("Too many login attempts. Please try again in %d seconds.", seconds),
			seconds,
		)
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", ip),
	)

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if hitErr := h.loginLimiter.Hit(ctx, req.Email, ip); hitErr != nil {
				logger.Log.Error("Login limiter hit failed", zap.Error(hitErr))
			}
			response.Error(c, http.StatusUnauthorized, "Invalid credentials. Please check your email and password.")
			return
		}
		logger.Log.Error("Login failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	if err := h.loginLimiter.Clear(ctx, req.Email, ip); err != nil {
		logger.Log.Error("Login limiter clear failed", zap.Error(err))
	}

	response.OK(c, http.StatusOK, "Login successful. Welcome back!", gin.H{
		"user":         userResource(user),
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, http.StatusInternalServerError, "An error occurred during logout")
		return
	}

	response.OK(c, http.StatusOK, "Logout successful. See you soon!", nil)
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	user, err := h.authService.GetUserByID(claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	response.OK(c, http.StatusOK, "", user)
}

// POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	token, err := h.authService.Refresh(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	response.OK(c, http.StatusOK, "Token refreshed successfully", gin.H{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

func userResource(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	}
}
