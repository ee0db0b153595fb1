// Package users provides database operations for lecturer accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.FindByUsername("alice")
package users

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/attendance/internal/entities"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user record. Username and email uniqueness is
// enforced by the unique indexes; a concurrent duplicate insert surfaces
// as a constraint violation from the driver.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// FindByID retrieves a user by primary key.
func (r *Repository) FindByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves a user by exact (case-sensitive) username.
func (r *Repository) FindByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByVerificationTokenHash retrieves a user by the stored hash of their
// email verification token.
func (r *Repository) FindByVerificationTokenHash(hash string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("verification_token_hash = ?", hash).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user with the given username or email exists.
func (r *Repository) Exists(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Updates applies a partial update to a user record.
func (r *Repository) Updates(id uint, fields map[string]any) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// DeleteUnverifiedBefore hard-deletes accounts that never verified their
// email and whose verification mail was sent before the cutoff. Returns
// the number of removed records.
func (r *Repository) DeleteUnverifiedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("email_verified = ? AND verification_sent_at IS NOT NULL AND verification_sent_at < ?", false, cutoff).
		Delete(&entities.User{})
	return result.RowsAffected, result.Error
}

// DeleteAllExcept hard-deletes every user whose email differs from the
// one given. Used by the cleanup-users CLI command.
func (r *Repository) DeleteAllExcept(adminEmail string) (int64, error) {
	result := r.db.Unscoped().
		Where("email <> ?", adminEmail).
		Delete(&entities.User{})
	return result.RowsAffected, result.Error
}
