package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/attendance/internal/database"
)

// HealthResponse is the JSON body of /health, used as the deployment
// health check (see render.yaml).
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status reports overall health. The database check covers the session
// store too, since sessions live in the same sqlite file.
func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{}
	status := "healthy"

	fail := func(name string, err error) {
		checks[name] = "error: " + err.Error()
		status = "unhealthy"
	}

	if h.db == nil {
		checks["database"] = "not configured"
	} else if sqlDB, err := h.db.DB.DB(); err != nil {
		fail("database", err)
	} else if err := sqlDB.Ping(); err != nil {
		fail("database", err)
	} else {
		checks["database"] = "ok"

		var count int64
		if err := h.db.DB.Table("users").Count(&count).Error; err != nil {
			fail("schema", err)
		} else {
			checks["schema"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
