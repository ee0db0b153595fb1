package tasks

import (
	"sync"
	"time"
)

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxRetries is the maximum retry attempts for failed tasks. Default: 3
	MaxRetries int

	// RetryDelay is the backoff duration between retries. Default: 1m
	RetryDelay time.Duration

	// TaskTimeout is the timeout for task execution. Default: 1m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long to keep completed tasks. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       1 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// backlite derives a queue's settings from the task type's Config method,
// not from the client, so the environment-driven retry knobs are held here
// for the task types to read. NewClient records them before queues are
// registered.
var (
	queueSettingsMu sync.RWMutex
	queueSettings   = DefaultConfig()
)

func setQueueSettings(cfg Config) {
	queueSettingsMu.Lock()
	defer queueSettingsMu.Unlock()
	queueSettings = cfg
}

func currentQueueSettings() Config {
	queueSettingsMu.RLock()
	defer queueSettingsMu.RUnlock()
	return queueSettings
}
