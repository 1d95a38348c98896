package database_test

import (
	"context"
	"testing"

	"github.com/localnerve/jam-build-shoppinglist/internal/database"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// TestWithDatabaseContainer runs the shopping list flow against the
// database selected by DB_TYPE in a container
func TestWithDatabaseContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc, err := testutil.CreateDBContainer(t)
	if err != nil {
		t.Fatalf("Failed to start database container: %v", err)
	}
	t.Cleanup(func() { tc.Terminate(t) })

	services.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { services.PasswordCost = bcrypt.DefaultCost })

	db, err := database.Connect(tc.Config, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	ctx := context.Background()
	require.NoError(t, database.Ping(ctx, db))

	alice, err := services.Register(ctx, db, services.RegisterInput{Email: "Alice@Example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", alice.Email)
	bob, err := services.Register(ctx, db, services.RegisterInput{Email: "bob@example.com", Password: "correct-horse-battery"})
	require.NoError(t, err)

	_, err = services.Register(ctx, db, services.RegisterInput{Email: "alice@example.com", Password: "correct-horse-battery"})
	assert.Error(t, err)

	name := "Groceries"
	list, err := services.CreateShoppingList(ctx, db, alice.ID, services.ShoppingListInput{Name: &name})
	require.NoError(t, err)

	result, err := services.ShareShoppingList(ctx, db, alice, list.ID, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, result.Shared)

	product, category := "Milk", string(models.CategoryDairy)
	_, err = services.CreateItem(ctx, db, bob.ID, list.ID, services.ItemInput{
		Product:  &product,
		Category: &category,
		Quantity: services.Some(2),
	})
	require.NoError(t, err)

	lists, err := services.ListShoppingLists(ctx, db, bob.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Len(t, lists[0].Items, 1)

	notes, err := services.ListNotifications(ctx, db, bob.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, services.DeleteAccount(ctx, db, alice))

	lists, err = services.ListShoppingLists(ctx, db, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, lists)

	var items int64
	require.NoError(t, db.Model(&models.Item{}).Count(&items).Error)
	assert.Zero(t, items)
}
