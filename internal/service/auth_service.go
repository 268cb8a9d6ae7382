package service

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"movieflix/internal/config"
	"movieflix/internal/models"
	"movieflix/internal/repository"
)

// AuthService handles registration, login and bearer token issuance.
type AuthService struct {
	users UserStore
	jwt   config.JWTConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, jwt: jwtCfg}
}

// Register creates a new account and returns a signed token for it.
func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(req.Username, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return s.authResponse(user)
}

// Login verifies credentials and returns a signed token. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, &ValidationError{Message: "email and password are required"}
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token: token,
		User: models.PublicUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}

func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, s.jwt.ExpiryDays)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func validateRegistration(req models.RegisterRequest) error {
	if n := len(req.Username); n < 3 || n > 30 {
		return &ValidationError{Message: "username must be between 3 and 30 characters"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return &ValidationError{Message: "please provide a valid email"}
	}
	if len(req.Password) < 6 {
		return &ValidationError{Message: "password must be at least 6 characters"}
	}
	return nil
}
