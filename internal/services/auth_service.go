package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PasswordCost is the bcrypt cost for new password hashes
var PasswordCost = bcrypt.DefaultCost

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileInput carries the editable profile fields
type ProfileInput struct {
	FirstName *string
	LastName  *string
}

// NormalizeEmail trims and lowercases an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's hash
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// FindUserByEmail returns the user registered under email, or ErrNotFound
func FindUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &user, nil
}

// Register creates an active account. Field problems come back as types.FieldErrors.
func Register(ctx context.Context, db *gorm.DB, in RegisterInput) (*models.User, error) {
	db = db.WithContext(ctx)
	email := NormalizeEmail(in.Email)

	errs := types.FieldErrors{}
	if _, err := FindUserByEmail(db, email); err == nil {
		errs.Add("email", MsgEmailTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	for _, msg := range ValidatePassword(in.Password, email) {
		errs.Add("password", msg)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:      email,
		Password:   hash,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.FieldErrors{"email": {MsgEmailTaken}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate checks credentials. Unknown email, wrong password and
// inactive accounts all give ErrInvalidCredentials.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*models.User, error) {
	user, err := FindUserByEmail(db.WithContext(ctx), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// newTokenKey returns 40 random hex characters
func newTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreateToken returns the user's API token, creating it on first login,
// and stamps the login time.
func GetOrCreateToken(ctx context.Context, db *gorm.DB, user *models.User) (string, error) {
	var key string

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.AuthToken
		err := tx.Where("user_id = ?", user.ID).First(&token).Error
		switch {
		case err == nil:
			key = token.Key
		case errors.Is(err, gorm.ErrRecordNotFound):
			if key, err = newTokenKey(); err != nil {
				return err
			}
			token = models.AuthToken{Key: key, UserID: user.ID}
			if err := tx.Omit(clause.Associations).Create(&token).Error; err != nil {
				return fmt.Errorf("failed to create token: %w", err)
			}
		default:
			return err
		}

		now := time.Now().UTC()
		user.LastLogin = &now
		return tx.Model(user).UpdateColumn("last_login", now).Error
	})

	return key, err
}

// DeleteToken revokes an API token
func DeleteToken(ctx context.Context, db *gorm.DB, key string) error {
	if key == "" {
		return ErrInvalidToken
	}
	// struct conditions quote the column; KEY is reserved in MySQL
	return db.WithContext(ctx).Where(&models.AuthToken{Key: key}).Delete(&models.AuthToken{}).Error
}

// UserForToken resolves an API token to its active user
func UserForToken(ctx context.Context, db *gorm.DB, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	var token models.AuthToken
	err := db.WithContext(ctx).Preload("User").Where(&models.AuthToken{Key: key}).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !token.User.IsActive {
		return nil, ErrInactiveUser
	}
	return &token.User, nil
}

// SetPassword replaces the password after checking the current one
func SetPassword(ctx context.Context, db *gorm.DB, user *models.User, current, next string) error {
	if !CheckPassword(user, current) {
		return types.FieldErrors{"current_password": {MsgInvalidPassword}}
	}
	if msgs := ValidatePassword(next, user.Email); len(msgs) > 0 {
		return types.FieldErrors{"new_password": msgs}
	}
	return updatePassword(db.WithContext(ctx), user, next)
}

func updatePassword(db *gorm.DB, user *models.User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := db.Model(user).UpdateColumn("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateProfile applies in to the user's names
func UpdateProfile(ctx context.Context, db *gorm.DB, user *models.User, in ProfileInput) error {
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// DeleteAccount removes the user together with their tokens, notifications,
// memberships and owned lists.
func DeleteAccount(ctx context.Context, db *gorm.DB, user *models.User) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete tokens: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ShoppingListShare{}).Error; err != nil {
			return fmt.Errorf("failed to delete shares: %w", err)
		}

		var owned []uint64
		if err := tx.Model(&models.ShoppingList{}).Where("user_id = ?", user.ID).Pluck("id", &owned).Error; err != nil {
			return fmt.Errorf("failed to find owned lists: %w", err)
		}
		if err := deleteLists(tx, owned); err != nil {
			return err
		}

		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
