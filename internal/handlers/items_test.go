package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/localnerve/jam-build-shoppinglist/internal/handlers"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem(t *testing.T) {
	s := newTestServer(t, nil)
	alice := testutil.CreateTestUser(t, s.db, "alice@example.com", "pw")
	token := testutil.CreateTestToken(t, s.db, alice, "alice-token")
	list := testutil.CreateTestList(t, s.db, "Groceries", alice)
	path := fmt.Sprintf("/api/shoppinglist/%d/item/", list.ID)

	resp := s.do(t, http.MethodPost, path, token, map[string]interface{}{
		"product":  "Milk",
		"category": "dairy",
		"quantity": "2",
		"unit":     "l",
		"note":     "lactose free",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var item handlers.ItemResponse
	testutil.ParseJSON(t, resp, &item)
	assert.Equal(t, list.ID, item.ShoppingList)
	assert.Equal(t, "Milk", item.Product)
	assert.Equal(t, "dairy", item.Category)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2, *item.Quantity)
	require.NotNil(t, item.Unit)
	assert.Equal(t, "l", *item.Unit)
	require.NotNil(t, item.Note)
	assert.Equal(t, "lactose free", *item.Note)
	assert.False(t, item.Completed)

	// a blank unit stores null
	resp = s.do(t, http.MethodPost, path, token, map[string]interface{}{
		"product":  "Bread",
		"category": "bread",
		"unit":     "",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	testutil.ParseJSON(t, resp, &item)
	assert.Nil(t, item.Unit)
	assert.Nil(t, item.Quantity)
}

func TestCreateItemValidation(t *testing.T) {
	s := newTestServer(t, nil)
	alice := testutil.CreateTestUser(t, s.db, "alice@example.com", "pw")
	token := testutil.CreateTestToken(t, s.db, alice, "alice-token")
	list := testutil.CreateTestList(t, s.db, "Groceries", alice)
	path := fmt.Sprintf("/api/shoppinglist/%d/item/", list.ID)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
		want  string
	}{
		{"missing product", map[string]interface{}{"category": "dairy"}, "product", "This field is required."},
		{"missing category", map[string]interface{}{"product": "Milk"}, "category", "This field is required."},
		{"bad category", map[string]interface{}{"product": "Milk", "category": "toys"}, "category", `"toys" is not a valid choice.`},
		{"bool category", map[string]interface{}{"product": "Milk", "category": true}, "category", `"True" is not a valid choice.`},
		{"bad unit", map[string]interface{}{"product": "Milk", "category": "dairy", "unit": "gallon"}, "unit", `"gallon" is not a valid choice.`},
		{"zero quantity", map[string]interface{}{"product": "Milk", "category": "dairy", "quantity": 0}, "quantity", "Ensure this value is greater than or equal to 1."},
		{"text quantity", map[string]interface{}{"product": "Milk", "category": "dairy", "quantity": "lots"}, "quantity", "A valid integer is required."},
		{"fraction quantity", map[string]interface{}{"product": "Milk", "category": "dairy", "quantity": 1.5}, "quantity", "A valid integer is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, path, token, tt.body)
			testutil.AssertStatus(t, resp, http.StatusBadRequest)
			assert.Equal(t, []string{tt.want}, fieldErrors(t, resp)[tt.field])
		})
	}
}

func TestItemsOfMissingList(t *testing.T) {
	s := newTestServer(t, nil)
	alice := testutil.CreateTestUser(t, s.db, "alice@example.com", "pw")
	bob := testutil.CreateTestUser(t, s.db, "bob@example.com", "pw")
	token := testutil.CreateTestToken(t, s.db, alice, "alice-token")
	other := testutil.CreateTestList(t, s.db, "Bob's", bob)
	item := testutil.CreateTestItem(t, s.db, other, "Milk", models.CategoryDairy)

	for _, path := range []string{
		"/api/shoppinglist/999/item/",
		fmt.Sprintf("/api/shoppinglist/%d/item/", other.ID),
		fmt.Sprintf("/api/shoppinglist/%d/item/%d/", other.ID, item.ID),
	} {
		resp := s.do(t, http.MethodGet, path, token, nil)
		testutil.AssertStatus(t, resp, http.StatusNotFound)
		testutil.AssertDetail(t, resp, handlers.MsgListNotFound)
	}
}

func TestListItemsOrdering(t *testing.T) {
	s := newTestServer(t, nil)
	alice := testutil.CreateTestUser(t, s.db, "alice@example.com", "pw")
	token := testutil.CreateTestToken(t, s.db, alice, "alice-token")
	list := testutil.CreateTestList(t, s.db, "Groceries", alice)

	done := testutil.CreateTestItem(t, s.db, list, "Milk", models.CategoryDairy)
	require.NoError(t, s.db.Model(done).UpdateColumn("completed", true).Error)
	first := testutil.CreateTestItem(t, s.db, list, "Bread", models.CategoryBread)
	second := testutil.CreateTestItem(t, s.db, list, "Apples", models.CategoryFruitsVegetables)

	resp := s.do(t, http.MethodGet, fmt.Sprintf("/api/shoppinglist/%d/item/", list.ID), token, nil)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var items []handlers.ItemResponse
	testutil.ParseJSON(t, resp, &items)
	require.Len(t, items, 3)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, done.ID, items[2].ID)
	assert.True(t, items[2].Completed)
}

func TestUpdateAndDeleteItem(t *testing.T) {
	s := newTestServer(t, nil)
	alice := testutil.CreateTestUser(t, s.db, "alice@example.com", "pw")
	bob := testutil.CreateTestUser(t, s.db, "bob@example.com", "pw")
	bobToken := testutil.CreateTestToken(t, s.db, bob, "bob-token")
	list := testutil.CreateTestList(t, s.db, "Groceries", alice)
	testutil.ShareTestList(t, s.db, list, bob)
	item := testutil.CreateTestItem(t, s.db, list, "Milk", models.CategoryDairy)
	path := fmt.Sprintf("/api/shoppinglist/%d/item/%d/", list.ID, item.ID)

	resp := s.do(t, http.MethodPatch, path, bobToken, map[string]interface{}{"completed": 1, "quantity": "3.0"})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var got handlers.ItemResponse
	testutil.ParseJSON(t, resp, &got)
	assert.True(t, got.Completed)
	require.NotNil(t, got.Quantity)
	assert.Equal(t, 3, *got.Quantity)
	assert.Equal(t, "Milk", got.Product)

	resp = s.do(t, http.MethodPut, path, bobToken, map[string]interface{}{"product": "Butter"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	assert.Equal(t, []string{"This field is required."}, fieldErrors(t, resp)["category"])

	resp = s.do(t, http.MethodPut, path, bobToken, map[string]interface{}{"product": "Butter", "category": "fats", "quantity": nil})
	testutil.AssertStatus(t, resp, http.StatusOK)
	testutil.ParseJSON(t, resp, &got)
	assert.Equal(t, "Butter", got.Product)
	assert.Equal(t, "fats", got.Category)
	assert.Nil(t, got.Quantity)

	resp = s.do(t, http.MethodDelete, path, bobToken, nil)
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	testutil.AssertNoContent(t, resp)

	resp = s.do(t, http.MethodGet, path, bobToken, nil)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertDetail(t, resp, handlers.MsgNotFound)
}
