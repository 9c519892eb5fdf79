package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shopassist/internal/model"
	"shopassist/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// UserRepository is the persistence the auth service needs.
type UserRepository interface {
	List() ([]model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByID(id string) (*model.User, error)
	Create(user model.User) error
	SeedIfEmpty(defaults []model.User) (bool, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(user model.UserInfo) (string, error)
}

// AuthService handles registration, login and user lookup.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger, now: time.Now}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a user with the "user" role and logs them in.
func (s *AuthService) Register(req model.RegisterRequest) (*model.AuthResponse, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hash,
		Role:      model.RoleUser,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.FindByEmail(strings.TrimSpace(req.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.Password, req.Password) {
		s.logger.Info("login rejected", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}
	return s.issue(*user)
}

// Me returns the user behind a validated token.
func (s *AuthService) Me(userID string) (*model.UserInfo, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

// ListUsers returns every user without password hashes.
func (s *AuthService) ListUsers() ([]model.UserInfo, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, err
	}
	out := make([]model.UserInfo, len(users))
	for i, u := range users {
		out[i] = u.Info()
	}
	return out, nil
}

// SeedDefaults creates the default admin and user accounts when the store
// is empty.
func (s *AuthService) SeedDefaults(adminEmail, adminPassword string) error {
	accounts := []struct {
		name, email, password, role string
	}{
		{"Admin", adminEmail, adminPassword, model.RoleAdmin},
		{"User", "user@gmail.com", "user@123", model.RoleUser},
	}

	defaults := make([]model.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := HashPassword(a.password)
		if err != nil {
			return err
		}
		defaults = append(defaults, model.User{
			ID:        uuid.NewString(),
			Name:      a.name,
			Email:     a.email,
			Password:  hash,
			Role:      a.role,
			CreatedAt: s.now().UTC(),
		})
	}

	seeded, err := s.users.SeedIfEmpty(defaults)
	if err != nil {
		return err
	}
	if seeded {
		s.logger.Info("seeded default users", zap.String("admin_email", adminEmail))
	}
	return nil
}

func (s *AuthService) issue(user model.User) (*model.AuthResponse, error) {
	info := user.Info()
	token, err := s.tokens.GenerateToken(info)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.AuthResponse{Success: true, User: info, Token: token}, nil
}
