package testutil

import (
	"testing"
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateTestUser inserts an active user with a bcrypt hash of password
func CreateTestUser(t testing.TB, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	// MinCost keeps the suite fast; production hashing uses the default cost
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Email:      email,
		Password:   string(hash),
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// CreateTestToken inserts an API token for the user and returns its key
func CreateTestToken(t testing.TB, db *gorm.DB, user *models.User, key string) string {
	t.Helper()
	token := models.AuthToken{Key: key, UserID: user.ID}
	if err := db.Omit(clause.Associations).Create(&token).Error; err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return key
}

// CreateTestList inserts a shopping list owned by user (nil for no owner)
func CreateTestList(t testing.TB, db *gorm.DB, name string, user *models.User) *models.ShoppingList {
	t.Helper()
	list := &models.ShoppingList{Name: name, Completed: true}
	if user != nil {
		list.UserID = &user.ID
	}
	if err := db.Omit(clause.Associations).Create(list).Error; err != nil {
		t.Fatalf("Failed to create shopping list: %v", err)
	}
	return list
}

// ShareTestList adds users to the list's shared_with set
func ShareTestList(t testing.TB, db *gorm.DB, list *models.ShoppingList, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		share := models.ShoppingListShare{ShoppingListID: list.ID, UserID: u.ID}
		if err := db.Create(&share).Error; err != nil {
			t.Fatalf("Failed to share list: %v", err)
		}
	}
}

// CreateTestItem inserts an item into list
func CreateTestItem(t testing.TB, db *gorm.DB, list *models.ShoppingList, product string, category models.ItemCategory) *models.Item {
	t.Helper()
	item := &models.Item{
		ShoppingListID: list.ID,
		Product:        product,
		Category:       string(category),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	return item
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
