package entities

import (
	"time"

	"gorm.io/gorm"
)

type Weekday string

const (
	WeekdayMonday    Weekday = "Monday"
	WeekdayTuesday   Weekday = "Tuesday"
	WeekdayWednesday Weekday = "Wednesday"
	WeekdayThursday  Weekday = "Thursday"
	WeekdayFriday    Weekday = "Friday"
	WeekdaySaturday  Weekday = "Saturday"
	WeekdaySunday    Weekday = "Sunday"
)

// ValidWeekday reports whether d is one of the seven known day names.
func ValidWeekday(d Weekday) bool {
	switch d {
	case WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday,
		WeekdayFriday, WeekdaySaturday, WeekdaySunday:
		return true
	}
	return false
}

// Course is a scheduled class owned by a lecturer. AttendanceToken is the
// opaque identifier embedded in the course QR code; students reach the
// attendance form through it without an account.
type Course struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	LecturerID      uint           `gorm:"index" json:"lecturer_id"`
	Lecturer        User           `gorm:"foreignKey:LecturerID" json:"-"`
	Title           string         `gorm:"index;size:200" json:"title"`
	Day             Weekday        `gorm:"size:20" json:"day"`
	StartTime       string         `gorm:"size:5" json:"start_time"` // "15:04"
	EndTime         string         `gorm:"size:5" json:"end_time"`   // "15:04"
	AttendanceToken string         `gorm:"uniqueIndex;size:36" json:"attendance_token"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Attendances []Attendance `gorm:"foreignKey:CourseID" json:"attendances,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Attendance is a single student check-in for a course.
type Attendance struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CourseID       uint      `gorm:"index" json:"course_id"`
	Course         Course    `gorm:"foreignKey:CourseID" json:"-"`
	StudentName    string    `gorm:"size:100" json:"student_name"`
	StudentAdminNo string    `gorm:"index;size:20" json:"student_admin_no"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
}

func (Attendance) TableName() string {
	return "attendances"
}
