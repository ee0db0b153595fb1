package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/attendance/internal/auth"
	attendancedb "github.com/mrlokans/attendance/internal/database/attendance"
	"github.com/mrlokans/attendance/internal/database/courses"
	"github.com/mrlokans/attendance/internal/entities"
	"github.com/mrlokans/attendance/internal/qr"
)

// CourseController handles course management for authenticated lecturers.
type CourseController struct {
	courseRepo     *courses.Repository
	attendanceRepo *attendancedb.Repository
	baseURL        string
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseRepo *courses.Repository, attendanceRepo *attendancedb.Repository, baseURL string) *CourseController {
	return &CourseController{
		courseRepo:     courseRepo,
		attendanceRepo: attendanceRepo,
		baseURL:        baseURL,
	}
}

// RegisterRoutes registers course routes on the router.
func (cc *CourseController) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/courses")
	group.GET("", cc.List)
	group.POST("", cc.Create)
	group.GET("/:id", cc.Get)
	group.PUT("/:id", cc.Update)
	group.DELETE("/:id", cc.Delete)
	group.GET("/:id/qr", cc.QRCode)
	group.POST("/:id/rotate-token", cc.RotateToken)
	group.GET("/:id/attendance", cc.Attendance)
}

type courseRequest struct {
	Title     string `form:"title" json:"title"`
	Day       string `form:"day" json:"day"`
	StartTime string `form:"start_time" json:"start_time"`
	EndTime   string `form:"end_time" json:"end_time"`
}

func (r courseRequest) validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if len(r.Title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	if !entities.ValidWeekday(entities.Weekday(r.Day)) {
		return fmt.Errorf("invalid day %q", r.Day)
	}
	start, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return errors.New("start_time must be in HH:MM format")
	}
	end, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return errors.New("end_time must be in HH:MM format")
	}
	if !end.After(start) {
		return errors.New("end time must be after start time")
	}
	return nil
}

// courseResponse serializes a course, including the public attendance URL.
func (cc *CourseController) courseResponse(course *entities.Course) gin.H {
	return gin.H{
		"id":             course.ID,
		"title":          course.Title,
		"day":            course.Day,
		"start_time":     course.StartTime,
		"end_time":       course.EndTime,
		"attendance_url": cc.attendanceURL(course),
		"created_at":     course.CreatedAt,
	}
}

func (cc *CourseController) attendanceURL(course *entities.Course) string {
	return fmt.Sprintf("%s/attend/%s", cc.baseURL, course.AttendanceToken)
}

// ownedCourse loads a course by the :id param and checks it belongs to
// the authenticated lecturer. Writes the error response on failure.
func (cc *CourseController) ownedCourse(c *gin.Context) *entities.Course {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return nil
	}

	course, err := cc.courseRepo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		}
		return nil
	}

	if course.LecturerID != auth.GetUserID(c) {
		// Don't leak existence of other lecturers' courses
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return nil
	}

	return course
}

// List returns all courses owned by the authenticated lecturer.
func (cc *CourseController) List(c *gin.Context) {
	list, err := cc.courseRepo.ListByLecturer(auth.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list courses"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, cc.courseResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"courses": out})
}

// Create adds a new course for the authenticated lecturer.
func (cc *CourseController) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := &entities.Course{
		LecturerID: auth.GetUserID(c),
		Title:      req.Title,
		Day:        entities.Weekday(req.Day),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := cc.courseRepo.Create(course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, cc.courseResponse(course))
}

// Get returns a single owned course.
func (cc *CourseController) Get(c *gin.Context) {
	course := cc.ownedCourse(c)
	if course == nil {
		return
	}
	c.JSON(http.StatusOK, cc.courseResponse(course))
}

// Update modifies an owned course's schedule fields. The attendance
// token is untouched, so printed QR codes stay valid.
func (cc *CourseController) Update(c *gin.Context) {
	course := cc.ownedCourse(c)
	if course == nil {
		return
	}

	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course.Title = req.Title
	course.Day = entities.Weekday(req.Day)
	course.StartTime = req.StartTime
	course.EndTime = req.EndTime

	if err := cc.courseRepo.Update(course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update course"})
		return
	}

	c.JSON(http.StatusOK, cc.courseResponse(course))
}

// Delete removes an owned course.
func (cc *CourseController) Delete(c *gin.Context) {
	course := cc.ownedCourse(c)
	if course == nil {
		return
	}

	if err := cc.courseRepo.Delete(course.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

// QRCode renders the course's attendance link as a PNG QR code, sized by
// the optional "size" query parameter.
func (cc *CourseController) QRCode(c *gin.Context) {
	course := cc.ownedCourse(c)
	if course == nil {
		return
	}

	size := qr.DefaultSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > 2048 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 64 and 2048"})
			return
		}
		size = parsed
	}

	png, err := qr.EncodePNG(cc.attendanceURL(course), size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="course-%d-qr.png"`, course.ID))
	c.Data(http.StatusOK, "image/png", png)
}

// RotateToken replaces the course's attendance token, invalidating any
// previously distributed QR code.
func (cc *CourseController) RotateToken(c *gin.Context) {
	course := cc.ownedCourse(c)
	if course == nil {
		return
	}

	token, err := cc.courseRepo.RotateAttendanceToken(course.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate token"})
		return
	}
	course.AttendanceToken = token

	c.JSON(http.StatusOK, cc.courseResponse(course))
}

// Attendance lists student check-ins for an owned course.
func (cc *CourseController) Attendance(c *gin.Context) {
	course := cc.ownedCourse(c)
	if course == nil {
		return
	}

	records, err := cc.attendanceRepo.ListByCourse(course.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"course":     cc.courseResponse(course),
		"attendance": records,
		"count":      len(records),
	})
}
