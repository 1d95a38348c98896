package services

import (
	"context"
	"fmt"

	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/database"
	"github.com/localnerve/jam-build-shoppinglist/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Mail         string            `json:"mail"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every dependency answered
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

func (r *HealthCheckResult) fail(message string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = message
	} else {
		r.ErrorMessage += "; " + message
	}
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	if err := database.Ping(ctx, db); err != nil {
		result.Database = "unreachable"
		result.Details["database_error"] = err.Error()
		result.fail(fmt.Sprintf("Database ping failed: %v", err))
		log.Warn("health check failed - database ping", zap.Error(err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	// Check the mail relay, console mail is always available
	if cfg.EmailBackend != "smtp" {
		result.Mail = "console"
	} else if err := utils.PingSMTP(ctx, cfg.EmailHost, cfg.EmailPort); err != nil {
		result.Mail = "unreachable"
		result.Details["mail_error"] = err.Error()
		result.fail(fmt.Sprintf("SMTP ping failed: %v", err))
		log.Warn("health check failed - smtp ping", zap.Error(err))
	} else {
		result.Mail = "ok"
		result.Details["mail_host"] = cfg.EmailHost
	}

	if result.Healthy() {
		log.Debug("health check passed - all systems operational")
	}

	return result
}
