package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/attendance/internal/auth"
	"github.com/mrlokans/attendance/internal/config"
	"github.com/mrlokans/attendance/internal/database"
	attendancedb "github.com/mrlokans/attendance/internal/database/attendance"
	"github.com/mrlokans/attendance/internal/database/courses"
	"github.com/mrlokans/attendance/internal/database/users"
	http_controllers "github.com/mrlokans/attendance/internal/http"
	"github.com/mrlokans/attendance/internal/mailer"
	"github.com/mrlokans/attendance/internal/scheduler"
	"github.com/mrlokans/attendance/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component from the settings snapshot and starts the
// server. cfg has already passed Validate; nothing here re-reads the
// environment.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting attendance server v%s", version)
	if cfg.HTTP.Debug {
		log.Printf("WARNING: DEBUG mode is enabled")
	}

	db, err := database.NewDatabase(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	courseRepo := courses.NewRepository(db.DB)
	attendanceRepo := attendancedb.NewRepository(db.DB)

	authService := auth.NewService(userRepo, cfg.Auth)
	verifier := auth.NewVerifier(userRepo, cfg.Verification)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	mail := mailer.New(cfg.Mail)

	// Task queue for verification mail delivery
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var mailEnqueuer auth.VerificationMailEnqueuer
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(database.ParseDSN(cfg.Database.URL), taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewSendVerificationMailQueue(authService, verifier, mail),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		mailEnqueuer = tasks.NewEnqueuer(taskClient)
	}

	// Periodic cleanup of never-verified accounts and aged-out check-ins
	cleanupScheduler := scheduler.NewCleanupScheduler(userRepo, attendanceRepo, cfg.Cleanup)
	if err := cleanupScheduler.Start(); err != nil {
		log.Fatalf("Failed to start cleanup scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		CourseRepo:     courseRepo,
		AttendanceRepo: attendanceRepo,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		Verifier:       verifier,
		MailEnqueuer:   mailEnqueuer,
		HTTPConfig:     cfg.HTTP,
		CSRFSecret:     []byte(cfg.Auth.SecretKey),
		BaseURL:        cfg.Verification.BaseURL,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
