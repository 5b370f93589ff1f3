package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/utils"
	"go.uber.org/zap"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, persistenceError(s.log, "log in", err)
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.Role
	Address  *string
}

// Register creates a new account. Only an Admin caller may create another
// Admin; anonymous registrations always get the User role.
func (s *AuthService) Register(ctx context.Context, caller *Actor, input *RegisterInput) (*entity.User, error) {
	role := input.Role
	if role == "" {
		role = enum.RoleUser
	}
	if !role.IsValid() {
		return nil, apperror.NewValidationError("Role must be 'Admin' or 'User'.")
	}
	if role == enum.RoleAdmin && !caller.IsAdmin() {
		return nil, roleForbidden(enum.RoleAdmin.String())
	}

	email := normalizeEmail(input.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, persistenceError(s.log, "register user", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Role:         role,
		PasswordHash: hashed,
		Address:      input.Address,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, persistenceError(s.log, "register user", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", role.String()))
	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, persistenceError(s.log, "refresh token", err)
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, persistenceError(s.log, "load user", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
