package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// NotificationListShared is the kind stored when a list is shared with the recipient
const NotificationListShared = "list_shared"

// Notification is an in-app record of something that happened to a user
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"-"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Data      JSON      `json:"data"`
	IsRead    bool      `gorm:"not null" json:"is_read"`
	CreatedAt time.Time `json:"created"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// ListSharedData is the Data payload of a list_shared notification
type ListSharedData struct {
	ShoppingListID   uint64 `json:"shopping_list_id"`
	ShoppingListName string `json:"shopping_list_name"`
	SharedBy         string `json:"shared_by"`
}

// NewJSON marshals v into a JSON column value
func NewJSON(v interface{}) (JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return JSON{}, err
	}
	return JSON{JSON: datatypes.JSON(b)}, nil
}
