// Package courses provides database operations for course management.
package courses

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/attendance/internal/entities"
)

var ErrNotFound = errors.New("course not found")

// Repository handles all course database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new courses repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a course, assigning a fresh attendance token.
func (r *Repository) Create(course *entities.Course) error {
	course.AttendanceToken = uuid.NewString()
	return r.db.Create(course).Error
}

// FindByID retrieves a course by primary key.
func (r *Repository) FindByID(id uint) (*entities.Course, error) {
	var course entities.Course
	err := r.db.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByAttendanceToken retrieves a course by its opaque attendance token.
func (r *Repository) FindByAttendanceToken(token string) (*entities.Course, error) {
	var course entities.Course
	err := r.db.Where("attendance_token = ?", token).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListByLecturer returns all courses owned by a lecturer, newest first.
func (r *Repository) ListByLecturer(lecturerID uint) ([]entities.Course, error) {
	var courses []entities.Course
	err := r.db.Where("lecturer_id = ?", lecturerID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// Update persists changes to an existing course.
func (r *Repository) Update(course *entities.Course) error {
	return r.db.Save(course).Error
}

// RotateAttendanceToken replaces the attendance token, invalidating any
// previously printed QR code for the course.
func (r *Repository) RotateAttendanceToken(id uint) (string, error) {
	token := uuid.NewString()
	result := r.db.Model(&entities.Course{}).Where("id = ?", id).
		Update("attendance_token", token)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", ErrNotFound
	}
	return token, nil
}

// Delete soft-deletes a course.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
