package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "droply/database/repository/user"
	"droply/models"
	"droply/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenTTL = 72 * time.Hour

// UserService handles accounts and authentication.
type UserService interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	SetFCMToken(ctx context.Context, userID, token string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.Repository
	Logger *zap.Logger
}

func (s *DefaultUserService) Register(ctx context.Context, req models.RegistrationRequest) (*models.AuthResponse, error) {
	if existing, err := s.Repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s is already registered", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tz := req.Timezone
	if tz != "" {
		if _, lerr := time.LoadLocation(tz); lerr != nil {
			return nil, fmt.Errorf("unknown timezone %q", tz)
		}
	}

	u := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Currency:     "USD",
		Timezone:     tz,
		IsAvailable:  true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(u)
}

func (s *DefaultUserService) Authenticate(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(u)
}

func (s *DefaultUserService) issueToken(u *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: *u}, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

func (s *DefaultUserService) SetFCMToken(ctx context.Context, userID, token string) error {
	return s.Repo.SetFCMToken(ctx, userID, token)
}
