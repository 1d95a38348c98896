package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthHandler reports service health
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *zap.Logger
}

// Health handles GET /api/health
// @Summary Health check
// @Description Pings the database and, with the smtp backend, the mail relay
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, h.Log)

	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
