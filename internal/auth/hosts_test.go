package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func hostsTestRouter(allowedHosts []string, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AllowedHostsMiddleware(allowedHosts, debug))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAllowedHostsMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		allowedHosts []string
		debug        bool
		host         string
		wantCode     int
	}{
		{
			name:         "exact match",
			allowedHosts: []string{"example.com"},
			host:         "example.com",
			wantCode:     http.StatusOK,
		},
		{
			name:         "match ignores port",
			allowedHosts: []string{"example.com"},
			host:         "example.com:8188",
			wantCode:     http.StatusOK,
		},
		{
			name:         "match is case insensitive",
			allowedHosts: []string{"Example.COM"},
			host:         "example.com",
			wantCode:     http.StatusOK,
		},
		{
			name:         "unlisted host rejected",
			allowedHosts: []string{"example.com"},
			host:         "evil.com",
			wantCode:     http.StatusBadRequest,
		},
		{
			name:         "wildcard allows anything",
			allowedHosts: []string{"*"},
			host:         "anything.example.org",
			wantCode:     http.StatusOK,
		},
		{
			name:         "dot prefix matches subdomain",
			allowedHosts: []string{".example.com"},
			host:         "app.example.com",
			wantCode:     http.StatusOK,
		},
		{
			name:         "dot prefix matches bare domain",
			allowedHosts: []string{".example.com"},
			host:         "example.com",
			wantCode:     http.StatusOK,
		},
		{
			name:         "dot prefix rejects lookalike",
			allowedHosts: []string{".example.com"},
			host:         "notexample.com",
			wantCode:     http.StatusBadRequest,
		},
		{
			name:         "empty list in debug allows all",
			allowedHosts: nil,
			debug:        true,
			host:         "localhost:8188",
			wantCode:     http.StatusOK,
		},
		{
			name:         "empty list in production rejects all",
			allowedHosts: nil,
			debug:        false,
			host:         "example.com",
			wantCode:     http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := hostsTestRouter(tt.allowedHosts, tt.debug)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
