package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLockedOut is returned while an (email, ip) pair is cooling off
var ErrLockedOut = errors.New("account locked: too many login attempts")

// MsgLockedOut is the detail returned with a lockout
const MsgLockedOut = "Account locked: too many login attempts. Try again later."

// Lockout counts failed logins per (email, ip) and blocks the pair once
// Limit failures fall within Cooloff of each other.
type Lockout struct {
	Limit   int
	Cooloff time.Duration

	// Now is the clock; nil means time.Now
	Now func() time.Time
}

func (l *Lockout) now() time.Time {
	if l.Now != nil {
		return l.Now().UTC()
	}
	return time.Now().UTC()
}

// Check returns ErrLockedOut and the time left when the pair is locked
func (l *Lockout) Check(ctx context.Context, db *gorm.DB, email, ip string) (time.Duration, error) {
	var attempt models.AccessAttempt
	err := db.WithContext(ctx).
		Where("email = ? AND ip_address = ?", NormalizeEmail(email), ip).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read access attempts: %w", err)
	}

	if attempt.Failures < l.Limit {
		return 0, nil
	}
	remaining := attempt.LastFailureAt.Add(l.Cooloff).Sub(l.now())
	if remaining <= 0 {
		return 0, nil
	}
	return remaining, ErrLockedOut
}

// RecordFailure counts a failed login. Failures older than the cool-off
// start the count over.
func (l *Lockout) RecordFailure(ctx context.Context, db *gorm.DB, email, ip string) error {
	email = NormalizeEmail(email)
	now := l.now()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempt models.AccessAttempt
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ? AND ip_address = ?", email, ip).
			First(&attempt).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			attempt = models.AccessAttempt{Email: email, IPAddress: ip, Failures: 1, LastFailureAt: now}
			return tx.Create(&attempt).Error
		case err != nil:
			return fmt.Errorf("failed to read access attempts: %w", err)
		}

		if now.Sub(attempt.LastFailureAt) > l.Cooloff {
			attempt.Failures = 0
		}
		attempt.Failures++
		attempt.LastFailureAt = now
		return tx.Save(&attempt).Error
	})
}

// Reset clears the failure count after a successful login
func (l *Lockout) Reset(ctx context.Context, db *gorm.DB, email, ip string) error {
	return db.WithContext(ctx).
		Where("email = ? AND ip_address = ?", NormalizeEmail(email), ip).
		Delete(&models.AccessAttempt{}).Error
}
