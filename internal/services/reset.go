// reset.go
//
// Multi-tenant shopping list service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-shoppinglist.
// jam-build-shoppinglist is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-shoppinglist is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-shoppinglist.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resetClaims ties a reset token to the password hash it was issued for, so
// a token stops working once the password changes.
type resetClaims struct {
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// PasswordReset issues and redeems password reset tokens
type PasswordReset struct {
	Secret      []byte
	Timeout     time.Duration
	FrontendURL string
	From        string
	Mailer      mail.Mailer
	Log         *zap.Logger

	// Now is the clock; nil means time.Now
	Now func() time.Time
}

func (p *PasswordReset) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func passwordFingerprint(user *models.User) string {
	sum := sha256.Sum256([]byte(user.Password))
	return hex.EncodeToString(sum[:])[:16]
}

// EncodeUID encodes a user id for reset links
func EncodeUID(id uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(id, 10)))
}

// DecodeUID reverses EncodeUID
func DecodeUID(uid string) (uint64, bool) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return 0, false
	}
	return types.ParseID(string(b))
}

// MakeToken returns the uid and signed token for a reset link
func (p *PasswordReset) MakeToken(user *models.User) (string, string, error) {
	uid := EncodeUID(user.ID)
	now := p.now()

	claims := resetClaims{
		Fingerprint: passwordFingerprint(user),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.Timeout)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.Secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return uid, token, nil
}

// CheckToken reports whether token is a live reset token for user
func (p *PasswordReset) CheckToken(user *models.User, token string) bool {
	claims := &resetClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(EncodeUID(user.ID)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.Fingerprint == passwordFingerprint(user)
}

// ResetLink builds the frontend URL the reset email points at
func (p *PasswordReset) ResetLink(uid, token string) string {
	return fmt.Sprintf("%s/password/reset/confirm/%s/%s", strings.TrimRight(p.FrontendURL, "/"), uid, token)
}

// RequestPasswordReset mails a reset link when email belongs to an active
// user. Unknown addresses succeed silently.
func (p *PasswordReset) RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error {
	user, err := FindUserByEmail(db.WithContext(ctx), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	uid, token, err := p.MakeToken(user)
	if err != nil {
		return err
	}

	msg := mail.Message{
		From:    p.From,
		To:      []string{user.Email},
		Subject: MsgPasswordResetSub,
		Body: fmt.Sprintf(
			"You're receiving this email because you requested a password reset for your account.\n\nPlease go to the following page and choose a new password:\n\n%s\n",
			p.ResetLink(uid, token),
		),
	}
	if err := p.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	p.Log.Info("password reset requested", zap.Uint64("user_id", user.ID))
	return nil
}

// ConfirmPasswordReset sets a new password from a reset link and revokes
// the user's API tokens.
func (p *PasswordReset) ConfirmPasswordReset(ctx context.Context, db *gorm.DB, uid, token, password string) error {
	id, ok := DecodeUID(uid)
	if !ok {
		return types.FieldErrors{"uid": {MsgInvalidResetUID}}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.FieldErrors{"uid": {MsgInvalidResetUID}}
			}
			return err
		}
		if !user.IsActive {
			return types.FieldErrors{"uid": {MsgInvalidResetUID}}
		}

		if !p.CheckToken(&user, token) {
			return types.FieldErrors{"token": {MsgInvalidResetTok}}
		}
		if msgs := ValidatePassword(password, user.Email); len(msgs) > 0 {
			return types.FieldErrors{"new_password": msgs}
		}

		if err := updatePassword(tx, &user, password); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error; err != nil {
			return fmt.Errorf("failed to revoke tokens: %w", err)
		}

		p.Log.Info("password reset completed", zap.Uint64("user_id", user.ID))
		return nil
	})
}
