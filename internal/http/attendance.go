package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/attendance/internal/auth"
	attendancedb "github.com/mrlokans/attendance/internal/database/attendance"
	"github.com/mrlokans/attendance/internal/database/courses"
)

// AttendanceController handles the public student attendance form. The
// form is reached through the QR code token, no account required.
type AttendanceController struct {
	courseRepo     *courses.Repository
	attendanceRepo *attendancedb.Repository
}

// NewAttendanceController creates a new AttendanceController.
func NewAttendanceController(courseRepo *courses.Repository, attendanceRepo *attendancedb.Repository) *AttendanceController {
	return &AttendanceController{
		courseRepo:     courseRepo,
		attendanceRepo: attendanceRepo,
	}
}

// RegisterRoutes registers attendance routes on the router.
func (ac *AttendanceController) RegisterRoutes(router *gin.Engine) {
	router.GET("/attend/:token", ac.Form)
	router.POST("/attend/:token", ac.Submit)
}

type attendanceRequest struct {
	StudentName    string `form:"student_name" json:"student_name"`
	StudentAdminNo string `form:"student_admin_no" json:"student_admin_no"`
}

// Form describes the class behind a scanned QR code so the client can
// render the check-in form.
func (ac *AttendanceController) Form(c *gin.Context) {
	course, err := ac.courseRepo.FindByAttendanceToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown attendance link"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"class_title": course.Title,
		"day":         course.Day,
		"start_time":  course.StartTime,
		"end_time":    course.EndTime,
		"csrf_token":  auth.GetCSRFToken(c),
	})
}

// Submit records a student check-in for the course behind the token.
func (ac *AttendanceController) Submit(c *gin.Context) {
	course, err := ac.courseRepo.FindByAttendanceToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown attendance link"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		}
		return
	}

	var req attendanceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.StudentName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_name is required"})
		return
	}
	if len(req.StudentName) > 100 || len(req.StudentAdminNo) > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field too long"})
		return
	}

	record, err := ac.attendanceRepo.Record(course.ID, req.StudentName, req.StudentAdminNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record attendance"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "attendance recorded",
		"class_title": course.Title,
		"timestamp":   record.Timestamp,
	})
}
