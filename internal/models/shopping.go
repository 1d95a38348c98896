package models

import (
	"time"

	"gorm.io/gorm"
)

// ShoppingList is a named collection of items, optionally owned by a user
// and shared with others.
type ShoppingList struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	UserID      *uint64 `gorm:"index"`
	User        *User   `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Name        string  `gorm:"size:220;not null" validate:"required,max=220"`
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Completed   bool   `gorm:"not null"`
	SharedWith  []User `gorm:"many2many:shopping_list_shared_with;constraint:OnDelete:CASCADE" validate:"-"`
	Items       []Item `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
}

// TableName overrides the table name for ShoppingList
func (ShoppingList) TableName() string {
	return "shopping_lists"
}

// BeforeSave validates the list before any insert or update
func (l *ShoppingList) BeforeSave(tx *gorm.DB) error {
	return ValidateStruct(l)
}

// IsOwnedBy reports whether userID owns the list
func (l *ShoppingList) IsOwnedBy(userID uint64) bool {
	return l.UserID != nil && *l.UserID == userID
}

// IsSharedWith reports whether userID is in the loaded SharedWith set
func (l *ShoppingList) IsSharedWith(userID uint64) bool {
	for _, u := range l.SharedWith {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// ShoppingListShare is a row of the shared_with join table. Writes go through
// this model; reads preload ShoppingList.SharedWith.
type ShoppingListShare struct {
	ShoppingListID uint64 `gorm:"primaryKey"`
	UserID         uint64 `gorm:"primaryKey"`
	CreatedAt      time.Time
}

// TableName matches the many2many join table of ShoppingList.SharedWith
func (ShoppingListShare) TableName() string {
	return "shopping_list_shared_with"
}

// Item is a single product entry within a shopping list
type Item struct {
	ID             uint64  `gorm:"primaryKey;autoIncrement"`
	ShoppingListID uint64  `gorm:"not null;index"`
	Product        string  `gorm:"size:200;not null" validate:"required,max=200"`
	Quantity       *int    `validate:"omitempty,min=1"`
	Unit           *string `gorm:"size:20" validate:"omitempty,itemunit"`
	Category       string  `gorm:"size:25;not null" validate:"required,itemcategory"`
	Note           *string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Completed      bool `gorm:"not null"`
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}

// BeforeSave validates the item before any insert or update
func (i *Item) BeforeSave(tx *gorm.DB) error {
	return ValidateStruct(i)
}

// ItemOrder is the default item ordering, incomplete items first
const ItemOrder = "completed ASC, id ASC"
