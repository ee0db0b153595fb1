// Package attendance provides database operations for student check-ins.
package attendance

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/attendance/internal/entities"
)

// Repository handles all attendance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new attendance repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record stores a student check-in for a course.
func (r *Repository) Record(courseID uint, studentName, adminNo string) (*entities.Attendance, error) {
	record := &entities.Attendance{
		CourseID:       courseID,
		StudentName:    studentName,
		StudentAdminNo: adminNo,
		Timestamp:      time.Now(),
	}
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ListByCourse returns all check-ins for a course, newest first.
func (r *Repository) ListByCourse(courseID uint) ([]entities.Attendance, error) {
	var records []entities.Attendance
	err := r.db.Where("course_id = ?", courseID).
		Order("timestamp DESC").
		Find(&records).Error
	return records, err
}

// CountByCourse returns the number of check-ins for a course.
func (r *Repository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Attendance{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// DeleteBefore removes check-ins older than the cutoff. Returns the
// number of removed records.
func (r *Repository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", cutoff).Delete(&entities.Attendance{})
	return result.RowsAffected, result.Error
}
