package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	rediscache "github.com/samstark/writecoach-backend/internal/clients/redis"
)

type HealthHandler struct {
	db    *gorm.DB
	cache rediscache.ReportCache
}

func NewHealthHandler(db *gorm.DB, cache rediscache.ReportCache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthCheck reports per-dependency status. Degraded dependencies still
// return 200; callers inspect the services map.
func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	services := gin.H{}

	dbStatus := "ok"
	if sqlDB, err := hh.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}
	services["database"] = dbStatus

	if hh.cache != nil {
		services["report_cache"] = "ok"
	} else {
		services["report_cache"] = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"services": services,
	})
}
