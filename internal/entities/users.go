package entities

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User is a lecturer account. Password hashing is bcrypt via the auth
// package; the hash is opaque to everything else.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string `gorm:"size:100" json:"-"`
	FirstName    string `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string `gorm:"size:100" json:"last_name,omitempty"`
	Department   string `gorm:"size:100" json:"department,omitempty"`
	PhoneNumber  string `gorm:"size:15" json:"phone_number,omitempty"`
	Active       bool   `gorm:"default:true" json:"active"`

	// Email verification. Only the SHA-256 hash of the token is stored.
	EmailVerified         bool       `gorm:"default:false" json:"email_verified"`
	VerificationTokenHash string     `gorm:"index;size:64" json:"-"`
	VerificationSentAt    *time.Time `json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Courses []Course `gorm:"foreignKey:LecturerID" json:"courses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "First Last (username)" for logs and listings.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return fmt.Sprintf("%s %s (%s)", u.FirstName, u.LastName, u.Username)
}
