package services

import (
	"context"
	"fmt"

	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"gorm.io/gorm"
)

// ListNotifications returns the user's notifications, newest first
func ListNotifications(ctx context.Context, db *gorm.DB, userID uint64) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flags one of the user's notifications as read
func MarkNotificationRead(ctx context.Context, db *gorm.DB, userID, notificationID uint64) (*models.Notification, error) {
	db = db.WithContext(ctx)

	var notification models.Notification
	if err := db.Where("user_id = ?", userID).First(&notification, notificationID).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}

	if !notification.IsRead {
		notification.IsRead = true
		if err := db.Model(&notification).UpdateColumn("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}
	return &notification, nil
}

// NotifyListShared emails the recipient of a new share
func NotifyListShared(ctx context.Context, mailer mail.Mailer, from string, result *ShareResult, sharedBy string) error {
	if result == nil || !result.Shared {
		return nil
	}
	return mailer.Send(ctx, mail.Message{
		From:    from,
		To:      []string{result.Recipient.Email},
		Subject: MsgShareSubject,
		Body:    fmt.Sprintf(MsgShareBody, sharedBy),
	})
}
