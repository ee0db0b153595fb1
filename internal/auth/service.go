package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mrlokans/attendance/internal/config"
	"github.com/mrlokans/attendance/internal/database/users"
	"github.com/mrlokans/attendance/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("username or email already taken")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrAccountInactive  = errors.New("account is deactivated")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so that responses cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// IsValidationError reports whether err is a per-request registration
// failure that should surface as a 400 with its specific reason.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrUserExists),
		errors.Is(err, ErrUsernameRequired),
		errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrUsernameInvalid),
		errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrPasswordAllNumeric):
		return true
	}
	return false
}

// UserRepository is the persistence boundary for user identity records.
type UserRepository interface {
	Create(user *entities.User) error
	FindByID(id uint) (*entities.User, error)
	FindByUsername(username string) (*entities.User, error)
	FindByVerificationTokenHash(hash string) (*entities.User, error)
	Exists(username, email string) (bool, error)
	Updates(id uint, fields map[string]any) error
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Department  string
	PhoneNumber string
}

// Service handles authentication and user management.
type Service struct {
	repo   UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo UserRepository, cfg config.Auth) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// Register validates the input and creates a lecturer account with a
// hashed password. The duplicate check is advisory; the unique indexes on
// username and email are what serialize concurrent registrations, so a
// constraint violation from Create is also reported as ErrUserExists.
func (s *Service) Register(in RegisterInput) (*entities.User, error) {
	if in.Username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Email == "" {
		return nil, ErrEmailRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}

	if !usernamePattern.MatchString(in.Username) {
		return nil, ErrUsernameInvalid
	}

	// RFC 5321 length limit is 254
	if len(in.Email) > 254 || !emailPattern.MatchString(in.Email) {
		return nil, ErrEmailInvalid
	}

	exists, err := s.repo.Exists(in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Department:   in.Department,
		PhoneNumber:  in.PhoneNumber,
		Active:       true,
	}

	if err := s.repo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. Lookup misses
// and hash mismatches both return ErrInvalidCredentials.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, ErrAccountInactive
	}

	now := time.Now()
	_ = s.repo.Updates(user.ID, map[string]any{"last_login_at": now})
	user.LastLoginAt = &now

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword updates a user's password after verifying the old one.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.repo.Updates(userID, map[string]any{"password_hash": newHash})
}

// isUniqueViolation detects SQLite unique-constraint failures without
// importing the driver's error types here.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
