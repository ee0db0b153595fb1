package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/attendance/internal/auth"
)

// NewRouter assembles the middleware chain and controllers.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.HTTPConfig.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.AllowedHostsMiddleware(cfg.HTTPConfig.AllowedHosts, cfg.HTTPConfig.Debug))
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, !cfg.HTTPConfig.Debug))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Health endpoint
	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.String(200, "pong")
	})

	// Authentication: register, login, logout, email verification
	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.Verifier, cfg.MailEnqueuer)
	authController.RegisterRoutes(router)

	// Course management (lecturer-only) and QR codes
	courseController := NewCourseController(cfg.CourseRepo, cfg.AttendanceRepo, cfg.BaseURL)
	courseController.RegisterRoutes(router)

	// Public student attendance form
	attendanceController := NewAttendanceController(cfg.CourseRepo, cfg.AttendanceRepo)
	attendanceController.RegisterRoutes(router)

	return router
}
