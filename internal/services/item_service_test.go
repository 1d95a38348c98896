package services

import (
	"context"
	"testing"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	bob := testutil.CreateTestUser(t, db, "bob@example.com", "pw")
	list := testutil.CreateTestList(t, db, "Groceries", alice)
	testutil.ShareTestList(t, db, list, bob)

	item, err := CreateItem(ctx, db, alice.ID, list.ID, ItemInput{
		Product:  testutil.Ptr("Milk"),
		Category: testutil.Ptr(string(models.CategoryDairy)),
		Quantity: Some(2),
		Unit:     Some(string(models.UnitLiter)),
	})
	require.NoError(t, err)
	assert.Equal(t, list.ID, item.ShoppingListID)
	assert.False(t, item.Completed)
	assert.Equal(t, 2, *item.Quantity)

	// shared users see and edit items
	got, err := GetItem(ctx, db, bob.ID, list.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Product)

	updated, err := UpdateItem(ctx, db, bob.ID, list.ID, item.ID, ItemInput{
		Completed: testutil.Ptr(true),
		Unit:      Null[string](),
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.Unit)
	assert.Equal(t, 2, *updated.Quantity)

	items, err := ListItems(ctx, db, alice.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, DeleteItem(ctx, db, alice.ID, list.ID, item.ID))
	_, err = GetItem(ctx, db, alice.ID, list.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemsRequireVisibleList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	carol := testutil.CreateTestUser(t, db, "carol@example.com", "pw")
	list := testutil.CreateTestList(t, db, "Groceries", alice)
	item := testutil.CreateTestItem(t, db, list, "Milk", models.CategoryDairy)

	_, err := ListItems(ctx, db, carol.ID, list.ID)
	assert.ErrorIs(t, err, ErrListNotFound)

	_, err = GetItem(ctx, db, carol.ID, list.ID, item.ID)
	assert.ErrorIs(t, err, ErrListNotFound)

	_, err = CreateItem(ctx, db, carol.ID, list.ID, ItemInput{
		Product:  testutil.Ptr("Cheese"),
		Category: testutil.Ptr(string(models.CategoryDairy)),
	})
	assert.ErrorIs(t, err, ErrListNotFound)

	err = DeleteItem(ctx, db, carol.ID, list.ID, item.ID)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestItemBelongsToList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	first := testutil.CreateTestList(t, db, "First", alice)
	second := testutil.CreateTestList(t, db, "Second", alice)
	item := testutil.CreateTestItem(t, db, first, "Milk", models.CategoryDairy)

	_, err := GetItem(ctx, db, alice.ID, second.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateItemValidatesChoices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "pw")
	list := testutil.CreateTestList(t, db, "Groceries", alice)

	_, err := CreateItem(context.Background(), db, alice.ID, list.ID, ItemInput{
		Product:  testutil.Ptr("Milk"),
		Category: testutil.Ptr("moon rocks"),
	})
	assert.Error(t, err)
}
