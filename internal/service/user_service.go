package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/jwt"
	"github.com/careersage/careersage-backend/pkg/logger"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrAccountDeactivated = errors.New("account is deactivated")
)

type userRepository interface {
	Create(email, passwordHash, name string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	UpdateProfile(id, name, avatarURL, passwordHash string) (*models.User, error)
	TouchLastLogin(id string) error
}

// UserService handles registration, login and profile management.
type UserService struct {
	users      userRepository
	progress   progressStore
	jwtManager *jwt.JWTManager
}

func NewUserService(users userRepository, progress progressStore, jwtManager *jwt.JWTManager) *UserService {
	return &UserService{users: users, progress: progress, jwtManager: jwtManager}
}

// Register creates a user with a hashed password, seeds their progress row
// and issues a token.
func (s *UserService) Register(email, password, name string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrPasswordTooShort
	}

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(email, string(hash), name)
	if err != nil {
		return nil, "", err
	}

	if _, err := s.progress.GetOrCreate(user.ID); err != nil {
		logger.Warn("Failed to seed progress row", "userId", user.ID, "error", err)
	}

	token, err := s.jwtManager.Generate(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User registered", "userId", user.ID, "email", email)
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	if err := s.users.TouchLastLogin(user.ID); err != nil {
		logger.Warn("Failed to update last login", "userId", user.ID, "error", err)
	}

	token, err := s.jwtManager.Generate(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Get returns a user by id.
func (s *UserService) Get(userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfileInput carries the optional profile changes.
type UpdateProfileInput struct {
	Name            string
	AvatarURL       string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile updates name/avatar and optionally rotates the password
// after verifying the current one.
func (s *UserService) UpdateProfile(userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var newHash string
	if in.CurrentPassword != "" || in.NewPassword != "" {
		if !user.CheckPassword(in.CurrentPassword) {
			return nil, ErrWrongPassword
		}
		if len(in.NewPassword) < 6 {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		newHash = string(hash)
	}

	return s.users.UpdateProfile(userID, strings.TrimSpace(in.Name), in.AvatarURL, newHash)
}
