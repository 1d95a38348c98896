package handlers

import (
	"time"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
)

// ItemResponse is the JSON form of an item
type ItemResponse struct {
	ID           uint64    `json:"id"`
	ShoppingList uint64    `json:"shopping_list"`
	Product      string    `json:"product"`
	Quantity     *int      `json:"quantity"`
	Unit         *string   `json:"unit"`
	Category     string    `json:"category"`
	Note         *string   `json:"note"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	Completed    bool      `json:"completed"`
}

// ShoppingListResponse is the JSON form of a shopping list with its items
type ShoppingListResponse struct {
	ID          uint64         `json:"id"`
	ItemsCount  int            `json:"items_count"`
	Items       []ItemResponse `json:"items"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Created     time.Time      `json:"created"`
	Updated     time.Time      `json:"updated"`
	Completed   bool           `json:"completed"`
	User        *uint64        `json:"user"`
	SharedWith  []uint64       `json:"shared_with"`
}

// UserResponse is the JSON form of the current user
type UserResponse struct {
	ID         uint64    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

// TokenResponse is the login response
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// RegisterResponse is the registration response
type RegisterResponse struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

func newItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		ShoppingList: item.ShoppingListID,
		Product:      item.Product,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		Category:     item.Category,
		Note:         item.Note,
		Created:      item.CreatedAt,
		Updated:      item.UpdatedAt,
		Completed:    item.Completed,
	}
}

func newItemResponses(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, newItemResponse(&items[i]))
	}
	return out
}

func newShoppingListResponse(list *models.ShoppingList) ShoppingListResponse {
	shared := make([]uint64, 0, len(list.SharedWith))
	for _, u := range list.SharedWith {
		shared = append(shared, u.ID)
	}

	return ShoppingListResponse{
		ID:          list.ID,
		ItemsCount:  len(list.Items),
		Items:       newItemResponses(list.Items),
		Name:        list.Name,
		Description: list.Description,
		Created:     list.CreatedAt,
		Updated:     list.UpdatedAt,
		Completed:   list.Completed,
		User:        list.UserID,
		SharedWith:  shared,
	}
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.DateJoined,
	}
}
