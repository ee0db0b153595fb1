package courses

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/attendance/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_courses_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Course{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func newTestCourse(lecturerID uint, title string) *entities.Course {
	return &entities.Course{
		LecturerID: lecturerID,
		Title:      title,
		Day:        entities.WeekdayMonday,
		StartTime:  "09:00",
		EndTime:    "11:00",
	}
}

func TestRepository_Create_AssignsAttendanceToken(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	course := newTestCourse(1, "Distributed Systems")
	err := repo.Create(course)

	require.NoError(t, err)
	assert.NotZero(t, course.ID)
	assert.Len(t, course.AttendanceToken, 36) // uuid format
}

func TestRepository_FindByAttendanceToken(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := newTestCourse(1, "Distributed Systems")
	require.NoError(t, repo.Create(created))

	course, err := repo.FindByAttendanceToken(created.AttendanceToken)

	require.NoError(t, err)
	assert.Equal(t, created.ID, course.ID)

	_, err = repo.FindByAttendanceToken("not-a-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ListByLecturer(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(newTestCourse(1, "Course A")))
	require.NoError(t, repo.Create(newTestCourse(1, "Course B")))
	require.NoError(t, repo.Create(newTestCourse(2, "Course C")))

	list, err := repo.ListByLecturer(1)

	require.NoError(t, err)
	assert.Len(t, list, 2)

	other, err := repo.ListByLecturer(2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
	assert.Equal(t, "Course C", other[0].Title)
}

func TestRepository_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	course := newTestCourse(1, "Old Title")
	require.NoError(t, repo.Create(course))

	course.Title = "New Title"
	course.Day = entities.WeekdayFriday
	require.NoError(t, repo.Update(course))

	found, err := repo.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", found.Title)
	assert.Equal(t, entities.WeekdayFriday, found.Day)
}

func TestRepository_RotateAttendanceToken(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	course := newTestCourse(1, "Distributed Systems")
	require.NoError(t, repo.Create(course))
	oldToken := course.AttendanceToken

	newToken, err := repo.RotateAttendanceToken(course.ID)

	require.NoError(t, err)
	assert.NotEqual(t, oldToken, newToken)

	// Old token no longer resolves
	_, err = repo.FindByAttendanceToken(oldToken)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := repo.FindByAttendanceToken(newToken)
	require.NoError(t, err)
	assert.Equal(t, course.ID, found.ID)
}

func TestRepository_RotateAttendanceToken_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.RotateAttendanceToken(999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	course := newTestCourse(1, "Distributed Systems")
	require.NoError(t, repo.Create(course))

	require.NoError(t, repo.Delete(course.ID))

	_, err := repo.FindByID(course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(course.ID), ErrNotFound)
}
