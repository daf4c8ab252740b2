package handler

import (
	"net/http"

	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewHealthHandler(db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check handles GET /api/health. Degraded dependencies flip the status but
// the endpoint itself answers 200 unless the database is unreachable.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	redisStatus := "disabled"
	if h.cache.IsEnabled() {
		redisStatus = "up"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			redisStatus = "down"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"app":     constants.AppName,
		"version": constants.AppVersion,
		"db":      dbStatus,
		"redis":   redisStatus,
	})
}
