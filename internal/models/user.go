package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account. Email is the login identifier.
type User struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string     `gorm:"size:254;not null;uniqueIndex" json:"email" validate:"required,email,max=254"`
	Password   string     `gorm:"size:128;not null" json:"-"`
	FirstName  string     `gorm:"size:150" json:"first_name" validate:"max=150"`
	LastName   string     `gorm:"size:150" json:"last_name" validate:"max=150"`
	IsActive   bool       `gorm:"not null" json:"-"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"-"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeSave validates the user before any insert or update
func (u *User) BeforeSave(tx *gorm.DB) error {
	return ValidateStruct(u)
}

// AuthToken is the opaque API token handed out on login, one per user
type AuthToken struct {
	Key     string    `gorm:"primaryKey;size:40"`
	UserID  uint64    `gorm:"not null;uniqueIndex"`
	User    User      `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Created time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the table name for AuthToken
func (AuthToken) TableName() string {
	return "auth_tokens"
}

// AccessAttempt counts failed logins for an (email, ip) pair
type AccessAttempt struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	Email         string    `gorm:"size:254;not null;index:idx_access_attempt,unique"`
	IPAddress     string    `gorm:"size:45;not null;index:idx_access_attempt,unique"`
	Failures      int       `gorm:"not null"`
	LastFailureAt time.Time `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the table name for AccessAttempt
func (AccessAttempt) TableName() string {
	return "access_attempts"
}
