package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"multiblog/config"
	"multiblog/helper"
	"multiblog/models"
	"multiblog/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const errInvalidCredentials = "invalid credentials"

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	validator *helper.Validator
	cost      int
	dummyHash []byte
}

func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, validator *helper.Validator) AuthService {
	return newAuthService(userRepo, tokenRepo, validator, bcrypt.DefaultCost)
}

func newAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, validator *helper.Validator, cost int) *authService {
	// Compared against when the username is unknown so both failure paths
	// cost one bcrypt comparison.
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		validator: validator,
		cost:      cost,
		dummyHash: dummyHash,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	// Fast path; the unique index on username is what actually decides.
	_, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err == nil {
		return nil, models.ErrorConflict{Message: "username already taken"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     models.RoleAuthor,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrorConflict{Message: "username already taken"}
		}
		return nil, err
	}

	return user, nil
}

// Authenticate returns ErrorNotFound for an unknown username and
// ErrorUnauthorized for a wrong password. Both carry the same message.
func (s *authService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return nil, models.ErrorNotFound{Message: errInvalidCredentials}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: errInvalidCredentials}
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return models.ErrorUnauthorized{Message: "token has no id"}
	}
	return s.tokenRepo.Revoke(ctx, tokenID, expiresAt)
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"exp":      now.Add(config.JWTExpiration).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(config.JWTSecret)
}
