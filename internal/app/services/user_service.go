package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/auth"
)

// userStore is the repository surface the user service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// tokenIssuer issues signed bearer tokens.
type tokenIssuer interface {
	GenerateToken(userID int64, email string) (token string, expiresIn int64, err error)
}

// UserService defines the interface for account operations.
type UserService interface {
	Register(ctx context.Context, user *models.User, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userServiceImpl struct {
	userRepo userStore
	tokens   tokenIssuer
}

// NewUserService creates a new user service instance.
func NewUserService(userRepo userStore, tokens tokenIssuer) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *userServiceImpl) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidationFailed)
	}
	if user.Gender == "" {
		user.Gender = models.GenderOther
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id)
}

// Login verifies credentials and issues a bearer token.
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, int64, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, expiresIn, nil
}

// GetUserByID retrieves an account.
func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", apperrors.ErrValidationFailed)
	}
	return s.userRepo.GetByID(ctx, id)
}

// UpdateUser replaces the mutable profile fields.
func (s *userServiceImpl) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", apperrors.ErrValidationFailed)
	}
	if user.Gender != "" && user.Gender != models.GenderMale && user.Gender != models.GenderFemale && user.Gender != models.GenderOther {
		return nil, fmt.Errorf("%w: invalid gender %q", apperrors.ErrValidationFailed, user.Gender)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, user.ID)
}

// DeleteUser removes an account. An account cited by the payment ledger
// cannot be removed.
func (s *userServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid user ID", apperrors.ErrValidationFailed)
	}
	return s.userRepo.Delete(ctx, id)
}
