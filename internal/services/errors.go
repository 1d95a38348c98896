package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record is absent or not visible to the caller
	ErrNotFound = errors.New("not found")
	// ErrListNotFound is returned when the parent list of an item route is absent or not visible
	ErrListNotFound = errors.New("shopping list not found")
	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when an API token does not exist
	ErrInvalidToken = errors.New("invalid token")
	// ErrInactiveUser is returned when a token belongs to a deactivated user
	ErrInactiveUser = errors.New("user inactive or deleted")
)

// Messages returned in {"detail": ...} bodies by the sharing operations
const (
	MsgShareSelf        = "You cannot share the list with yourself."
	MsgUserNotFound     = "User not found."
	MsgShared           = "Shopping list shared successfully."
	MsgAlreadyShared    = "Shopping list was already shared with %s."
	MsgShareOwnerOnly   = "Only the owner can share this list."
	MsgInvalidUserID    = "Invalid user ID."
	MsgNotSharedWith    = "This list is not shared with the specified user."
	MsgUnshared         = "Successfully unshared the shopping list."
	MsgNoPermission     = "You do not have permission to perform this action."
	MsgIncorrectCreds   = "Incorrect Credentials"
	MsgInvalidPassword  = "Invalid password."
	MsgInvalidResetUID  = "Invalid user id or user doesn't exist."
	MsgInvalidResetTok  = "Invalid token for given user."
	MsgEmailTaken       = "user with this email already exists."
	MsgShareSubject     = "Shopping List Shared With You"
	MsgShareBody        = "%s has shared a shopping list with you."
	MsgPasswordResetSub = "Password reset"
)

func badRequest(message string) error {
	return types.NewError(fiber.StatusBadRequest, message, "shoppinglist.validation")
}

func forbidden(message string) error {
	return types.NewError(fiber.StatusForbidden, message, "shoppinglist.permission")
}

// notFound maps gorm's record-not-found onto target, passing other errors through
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
