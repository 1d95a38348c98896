package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"gorm.io/gorm"
)

// NotificationHandler handles the in-app notification routes
type NotificationHandler struct {
	DB *gorm.DB
}

// ListNotifications handles GET /api/notifications/
// @Summary List notifications
// @Description The caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security TokenAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /notifications/ [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	notifications, err := services.ListNotifications(c.UserContext(), h.DB, currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(notifications)
}

// MarkRead handles POST /api/notifications/:pk/read/
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{pk}/read/ [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := pathID(c, "pk")
	if err != nil {
		return err
	}

	notification, err := services.MarkNotificationRead(c.UserContext(), h.DB, currentUser(c).ID, id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(notification)
}
