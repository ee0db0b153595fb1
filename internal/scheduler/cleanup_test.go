package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/attendance/internal/config"
)

type fakeCleaner struct {
	calls   int
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeCleaner) DeleteUnverifiedBefore(cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

type fakeAttendanceCleaner struct {
	calls   int
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeAttendanceCleaner) DeleteBefore(cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestCleanupScheduler_RunOnce(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 3}
	attendance := &fakeAttendanceCleaner{deleted: 10}
	s := NewCleanupScheduler(cleaner, attendance, config.Cleanup{
		Enabled:          true,
		Schedule:         "0 3 * * *",
		UnverifiedMaxAge: 72 * time.Hour,
		AttendanceMaxAge: 2160 * time.Hour,
	})

	s.RunOnce()

	require.Equal(t, 1, cleaner.calls)
	assert.WithinDuration(t, time.Now().Add(-72*time.Hour), cleaner.cutoff, 5*time.Second)

	require.Equal(t, 1, attendance.calls)
	assert.WithinDuration(t, time.Now().Add(-2160*time.Hour), attendance.cutoff, 5*time.Second)
}

func TestCleanupScheduler_RunOnce_AttendanceRetentionDisabled(t *testing.T) {
	cleaner := &fakeCleaner{}
	attendance := &fakeAttendanceCleaner{}
	s := NewCleanupScheduler(cleaner, attendance, config.Cleanup{
		Enabled:          true,
		UnverifiedMaxAge: 72 * time.Hour,
		AttendanceMaxAge: 0,
	})

	s.RunOnce()

	assert.Equal(t, 1, cleaner.calls)
	assert.Zero(t, attendance.calls)
}

func TestCleanupScheduler_RunOnce_ErrorLogged(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("db locked")}
	attendance := &fakeAttendanceCleaner{err: errors.New("db locked")}
	s := NewCleanupScheduler(cleaner, attendance, config.Cleanup{
		Enabled:          true,
		UnverifiedMaxAge: 72 * time.Hour,
		AttendanceMaxAge: 2160 * time.Hour,
	})

	// Errors are logged, not propagated
	s.RunOnce()

	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 1, attendance.calls)
}

func TestCleanupScheduler_StartStop(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewCleanupScheduler(cleaner, &fakeAttendanceCleaner{}, config.Cleanup{
		Enabled:          true,
		Schedule:         "0 3 * * *",
		UnverifiedMaxAge: 72 * time.Hour,
	})

	require.NoError(t, s.Start())
	// Starting twice is harmless
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()
}

func TestCleanupScheduler_Disabled(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewCleanupScheduler(cleaner, &fakeAttendanceCleaner{}, config.Cleanup{
		Enabled:  false,
		Schedule: "0 3 * * *",
	})

	require.NoError(t, s.Start())
	s.Stop()

	assert.Zero(t, cleaner.calls)
}

func TestCleanupScheduler_InvalidSchedule(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewCleanupScheduler(cleaner, &fakeAttendanceCleaner{}, config.Cleanup{
		Enabled:  true,
		Schedule: "not a cron expression",
	})

	assert.Error(t, s.Start())
}
