package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InsecureDevSecret is substituted for SECRET_KEY in debug mode when none
// is configured. Validate rejects it outside of debug mode.
const InsecureDevSecret = "insecure-dev-secret-key-do-not-use"

// ConfigError is a fatal boot-time configuration failure. The process
// must not start when NewConfig/Validate returns one.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Verification
		Mail
		Tasks
		Cleanup
	}

	HTTP struct {
		Port         int32
		Host         string
		Debug        bool
		AllowedHosts []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URL string
	}
	Auth struct {
		SecretKey       string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool
	}
	Verification struct {
		TokenTTL time.Duration
		BaseURL  string // External base URL used in verification links
	}
	Mail struct {
		SMTPHost string
		SMTPPort int
		SMTPUser string
		SMTPPass string
		From     string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Cleanup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		// Unverified accounts older than this are removed by the cleanup job.
		UnverifiedMaxAge time.Duration
		// Attendance check-ins older than this are pruned. Zero keeps
		// them forever.
		AttendanceMaxAge time.Duration
	}
)

// splitHosts parses the ALLOWED_HOSTS comma-separated list.
func splitHosts(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if h := strings.TrimSpace(p); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// NewConfig builds the process-wide settings snapshot. An optional .env
// file is loaded first; a missing or unreadable file is tolerated so the
// same binary boots unchanged on platforms that inject real env vars.
func NewConfig() (*Config, error) {
	return newConfig(".env")
}

func newConfig(envFile string) (*Config, error) {
	// Missing file is the normal production case.
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("debug", false)
	v.SetDefault("allowed_hosts", "")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_url", "")

	// Auth defaults
	v.SetDefault("secret_key", "")
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("secure_cookies", true)

	// Email verification defaults
	v.SetDefault("verification_token_ttl", "24h")
	v.SetDefault("base_url", "http://localhost:8188")

	// Mail defaults (empty SMTP host selects the log-only mailer)
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("mail_from", "no-reply@localhost")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "1m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Cleanup job defaults
	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 3 * * *")
	v.SetDefault("cleanup_unverified_max_age", "72h")
	v.SetDefault("cleanup_attendance_max_age", "2160h") // 90 days

	cfg := &Config{
		HTTP: HTTP{
			Port:         v.GetInt32("PORT"),
			Host:         v.GetString("HOST"),
			Debug:        v.GetBool("DEBUG"),
			AllowedHosts: splitHosts(v.GetString("ALLOWED_HOSTS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL: v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			SecretKey:       v.GetString("SECRET_KEY"),
			SessionLifetime: v.GetDuration("SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			SecureCookies:   v.GetBool("SECURE_COOKIES"),
		},
		Verification: Verification{
			TokenTTL: v.GetDuration("VERIFICATION_TOKEN_TTL"),
			BaseURL:  v.GetString("BASE_URL"),
		},
		Mail: Mail{
			SMTPHost: v.GetString("SMTP_HOST"),
			SMTPPort: v.GetInt("SMTP_PORT"),
			SMTPUser: v.GetString("SMTP_USER"),
			SMTPPass: v.GetString("SMTP_PASS"),
			From:     v.GetString("MAIL_FROM"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Cleanup: Cleanup{
			Enabled:          v.GetBool("CLEANUP_ENABLED"),
			Schedule:         v.GetString("CLEANUP_SCHEDULE"),
			UnverifiedMaxAge: v.GetDuration("CLEANUP_UNVERIFIED_MAX_AGE"),
			AttendanceMaxAge: v.GetDuration("CLEANUP_ATTENDANCE_MAX_AGE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the required-settings policy. DATABASE_URL is always
// required. SECRET_KEY is required outside debug mode; in debug mode a
// missing key falls back to an insecure development default with a
// warning.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return &ConfigError{Key: "DATABASE_URL", Reason: "is required"}
	}

	if c.Auth.SecretKey == "" {
		if !c.HTTP.Debug {
			return &ConfigError{Key: "SECRET_KEY", Reason: "is required when DEBUG is false"}
		}
		log.Printf("WARNING: SECRET_KEY is not set, using an insecure development default. Never run production like this.")
		c.Auth.SecretKey = InsecureDevSecret
	}

	if !c.HTTP.Debug && len(c.HTTP.AllowedHosts) == 0 {
		log.Printf("WARNING: ALLOWED_HOSTS is empty, all requests with a Host header will be rejected")
	}

	return nil
}
