// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/attendance/internal/config"
)

// UnverifiedUserCleaner removes accounts that never completed email
// verification within the allowed window.
type UnverifiedUserCleaner interface {
	DeleteUnverifiedBefore(cutoff time.Time) (int64, error)
}

// AttendanceCleaner prunes check-in records past their retention window.
type AttendanceCleaner interface {
	DeleteBefore(cutoff time.Time) (int64, error)
}

// CleanupScheduler periodically prunes stale unverified accounts and old
// attendance records, the moral equivalent of a management command run
// by hand.
type CleanupScheduler struct {
	cleaner    UnverifiedUserCleaner
	attendance AttendanceCleaner
	config     config.Cleanup

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewCleanupScheduler creates a new scheduler instance.
func NewCleanupScheduler(cleaner UnverifiedUserCleaner, attendance AttendanceCleaner, cfg config.Cleanup) *CleanupScheduler {
	return &CleanupScheduler{
		cleaner:    cleaner,
		attendance: attendance,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Cleanup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.runCleanup)
	if err != nil {
		return err
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	log.Printf("Cleanup scheduler: started with schedule %q", s.config.Schedule)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Cleanup scheduler: stopped")
}

// RunOnce triggers a cleanup pass immediately, outside the schedule.
func (s *CleanupScheduler) RunOnce() {
	s.runCleanup()
}

func (s *CleanupScheduler) runCleanup() {
	s.pruneUnverifiedUsers()
	s.pruneAttendance()
}

func (s *CleanupScheduler) pruneUnverifiedUsers() {
	cutoff := time.Now().Add(-s.config.UnverifiedMaxAge)

	deleted, err := s.cleaner.DeleteUnverifiedBefore(cutoff)
	if err != nil {
		log.Printf("Cleanup scheduler: failed to prune unverified accounts: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Cleanup scheduler: removed %d unverified accounts older than %s", deleted, s.config.UnverifiedMaxAge)
	}
}

func (s *CleanupScheduler) pruneAttendance() {
	if s.attendance == nil || s.config.AttendanceMaxAge <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.config.AttendanceMaxAge)

	deleted, err := s.attendance.DeleteBefore(cutoff)
	if err != nil {
		log.Printf("Cleanup scheduler: failed to prune attendance records: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Cleanup scheduler: removed %d attendance records older than %s", deleted, s.config.AttendanceMaxAge)
	}
}
