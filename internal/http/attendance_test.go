package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createCourseToken registers a lecturer, creates a course and extracts
// the attendance token from the returned attendance URL.
func createCourseToken(t *testing.T, s *testServer) string {
	t.Helper()

	cookie := s.loginAs(t, "lecturer")
	w := s.postForm("/courses", validCourseForm, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AttendanceURL string `json:"attendance_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AttendanceURL)

	// URL shape: http://localhost/attend/<token>
	const marker = "/attend/"
	idx := len(resp.AttendanceURL) - 36
	require.Contains(t, resp.AttendanceURL, marker)
	return resp.AttendanceURL[idx:]
}

func TestAttendanceController_FormIsPublic(t *testing.T) {
	s := setupServer(t)
	token := createCourseToken(t, s)

	// No session cookie, the form comes straight from the QR scan
	w := s.get("/attend/"+token, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Distributed Systems")
	assert.Contains(t, w.Body.String(), "Monday")
}

func TestAttendanceController_FormUnknownToken(t *testing.T) {
	s := setupServer(t)

	w := s.get("/attend/no-such-token", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceController_Submit(t *testing.T) {
	s := setupServer(t)
	token := createCourseToken(t, s)

	w := s.postForm("/attend/"+token,
		"student_name=John+Student&student_admin_no=A1234567", nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "attendance recorded")
}

func TestAttendanceController_Submit_Validation(t *testing.T) {
	s := setupServer(t)
	token := createCourseToken(t, s)

	// Missing student name
	w := s.postForm("/attend/"+token, "student_admin_no=A1234567", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Name too long
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	w = s.postForm("/attend/"+token, "student_name="+string(long), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown token
	w = s.postForm("/attend/bogus", "student_name=John", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceController_LecturerSeesSubmissions(t *testing.T) {
	s := setupServer(t)
	cookie := s.loginAs(t, "alice")

	w := s.postForm("/courses", validCourseForm, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		AttendanceURL string `json:"attendance_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp.AttendanceURL[len(resp.AttendanceURL)-36:]

	submitW := s.postForm("/attend/"+token,
		"student_name=John+Student&student_admin_no=A1234567", nil)
	require.Equal(t, http.StatusCreated, submitW.Code)

	listW := s.get("/courses/1/attendance", cookie)
	require.Equal(t, http.StatusOK, listW.Code, listW.Body.String())
	assert.Contains(t, listW.Body.String(), "John Student")
	assert.Contains(t, listW.Body.String(), `"count":1`)
}
