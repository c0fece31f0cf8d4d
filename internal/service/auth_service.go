package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/digitup/immo-api/internal/models"
	"github.com/digitup/immo-api/internal/policy"
	"github.com/digitup/immo-api/internal/repository"
	"github.com/digitup/immo-api/internal/tokens"
	"github.com/digitup/immo-api/internal/utils"
	"github.com/digitup/immo-api/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`\d`)
)

type AuthService struct {
	userRepo      *repository.UserRepository
	tokenStore    *tokens.Store
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, tokenStore *tokens.Store, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenStore:    tokenStore,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a user account and issues its first token. Emails are
// lowercased before the uniqueness check and before storage.
func (s *AuthService) Register(ctx context.Context, name, email, password, passwordConfirmation string, role models.Role) (*models.User, string, error) {
	start := time.Now()
	email = strings.ToLower(email)

	logger.Log.Debug("Processing user registration",
		zap.String("email", email),
		zap.String("role", string(role)),
	)

	if fieldErrors := validateRegisterInput(name, email, password, passwordConfirmation, role); len(fieldErrors) > 0 {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", email),
			zap.Int("field_errors", len(fieldErrors)),
		)
		return nil, "", fieldErrors
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existing != nil {
		logger.Log.Warn("Email already registered",
			zap.String("email", email),
		)
		return nil, "", FieldErrors{"email": "This email is already registered"}
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
		zap.String("role", string(role)),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Login authenticates by email and password. A successful login revokes all
// previously issued tokens: issuing overwrites the stored token ID.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	start := time.Now()
	email = strings.ToLower(email)

	logger.Log.Debug("Processing user login", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Logout revokes the user's active token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokenStore.Revoke(ctx, userID); err != nil {
		logger.Log.Error("Failed to revoke token",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

// Refresh rotates the user's token: the previous one stops validating as
// soon as the new token ID is stored.
func (s *AuthService) Refresh(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", err
	}

	logger.Log.Info("Token refreshed", zap.String("user_id", userID.String()))
	return token, nil
}

// GetUserByID exposes user lookup for the /me endpoint.
func (s *AuthService) GetUserByID(id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetUserByID(id)
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	abilities := policy.AbilitiesForRole(user.Role)

	token, jti, err := utils.GenerateToken(user, abilities, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return "", err
	}

	if err := s.tokenStore.Save(ctx, user.ID, jti, s.jwtExpiration); err != nil {
		logger.Log.Error("Failed to store token ID",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return "", err
	}

	return token, nil
}

func validateRegisterInput(name, email, password, passwordConfirmation string, role models.Role) FieldErrors {
	fieldErrors := FieldErrors{}

	if len(name) < 3 {
		fieldErrors["name"] = "Name must be at least 3 characters"
	}
	if len(name) > 255 {
		fieldErrors["name"] = "Name must be at most 255 characters"
	}

	if !emailRegex.MatchString(email) {
		fieldErrors["email"] = "Please provide a valid email address"
	}
	if len(email) > 255 {
		fieldErrors["email"] = "Email too long"
	}

	if len(password) < 8 {
		fieldErrors["password"] = "Password must be at least 8 characters"
	} else if !upperRegex.MatchString(password) || !lowerRegex.MatchString(password) || !digitRegex.MatchString(password) {
		fieldErrors["password"] = "Password must contain at least one uppercase, one lowercase, and one digit"
	}
	if password != passwordConfirmation {
		fieldErrors["password_confirmation"] = "Password confirmation does not match"
	}

	if !role.Valid() {
		fieldErrors["role"] = "Role must be admin, agent, or guest"
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}
