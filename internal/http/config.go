package http

import (
	"github.com/mrlokans/attendance/internal/auth"
	"github.com/mrlokans/attendance/internal/config"
	"github.com/mrlokans/attendance/internal/database"
	"github.com/mrlokans/attendance/internal/database/attendance"
	"github.com/mrlokans/attendance/internal/database/courses"
)

// RouterConfig carries every dependency the router wires into controllers.
type RouterConfig struct {
	Database       *database.Database
	CourseRepo     *courses.Repository
	AttendanceRepo *attendance.Repository

	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	Verifier       *auth.Verifier
	MailEnqueuer   auth.VerificationMailEnqueuer

	HTTPConfig config.HTTP
	CSRFSecret []byte
	BaseURL    string
	Version    string
}
