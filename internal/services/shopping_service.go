// shopping_service.go
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
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// visibleTo limits shopping_lists to those owned by or shared with userID
func visibleTo(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"shopping_lists.user_id = ? OR EXISTS (SELECT 1 FROM shopping_list_shared_with s WHERE s.shopping_list_id = shopping_lists.id AND s.user_id = ?)",
			userID, userID,
		)
	}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order(models.ItemOrder)
}

// findVisibleList loads a list with its shared_with set, or ErrNotFound
func findVisibleList(tx *gorm.DB, userID, listID uint64, lock bool) (*models.ShoppingList, error) {
	query := tx.Scopes(visibleTo(userID))
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var list models.ShoppingList
	if err := query.First(&list, listID).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}

	if err := tx.Model(&list).Association("SharedWith").Find(&list.SharedWith); err != nil {
		return nil, fmt.Errorf("failed to load shared users: %w", err)
	}

	return &list, nil
}

// ListShoppingLists returns every list the user owns or has been shared,
// with items in default order.
func ListShoppingLists(ctx context.Context, db *gorm.DB, userID uint64) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "shoppinglist:list")).
		Scopes(visibleTo(userID)).
		Preload("Items", preloadItems).
		Preload("SharedWith").
		Order("shopping_lists.id").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return lists, nil
}

// GetShoppingList returns one visible list with items and shared users
func GetShoppingList(ctx context.Context, db *gorm.DB, userID, listID uint64) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "shoppinglist:get")).
		Scopes(visibleTo(userID)).
		Preload("Items", preloadItems).
		Preload("SharedWith").
		First(&list, listID).Error
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &list, nil
}

// CreateShoppingList creates a list owned by ownerID. Completed defaults to true.
func CreateShoppingList(ctx context.Context, db *gorm.DB, ownerID uint64, in ShoppingListInput) (*models.ShoppingList, error) {
	list := models.ShoppingList{
		UserID:    &ownerID,
		Completed: true,
	}
	applyListInput(&list, in)

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}

	return GetShoppingList(ctx, db, ownerID, list.ID)
}

// UpdateShoppingList applies in to a visible list. Owners and shared users may update.
func UpdateShoppingList(ctx context.Context, db *gorm.DB, userID, listID uint64, in ShoppingListInput) (*models.ShoppingList, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := findVisibleList(tx, userID, listID, true)
		if err != nil {
			return err
		}

		applyListInput(list, in)
		return tx.Omit(clause.Associations).Save(list).Error
	})
	if err != nil {
		return nil, err
	}

	return GetShoppingList(ctx, db, userID, listID)
}

func applyListInput(list *models.ShoppingList, in ShoppingListInput) {
	if in.Name != nil {
		list.Name = *in.Name
	}
	if in.Description.Set {
		list.Description = in.Description.Value
	}
	if in.Completed != nil {
		list.Completed = *in.Completed
	}
}

// DeleteOutcome tells what DeleteShoppingList did
type DeleteOutcome int

const (
	// ListDeleted means the owner deleted the list and its items
	ListDeleted DeleteOutcome = iota
	// ListLeft means a shared user removed themself from the list
	ListLeft
)

// DeleteShoppingList deletes the list when userID owns it. A shared user
// only leaves the list, which stays in place for everyone else.
func DeleteShoppingList(ctx context.Context, db *gorm.DB, userID, listID uint64) (DeleteOutcome, error) {
	var outcome DeleteOutcome

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := findVisibleList(tx, userID, listID, true)
		if err != nil {
			return err
		}

		if list.IsOwnedBy(userID) {
			outcome = ListDeleted
			return deleteLists(tx, []uint64{list.ID})
		}

		if list.IsSharedWith(userID) {
			outcome = ListLeft
			return tx.Where("shopping_list_id = ? AND user_id = ?", list.ID, userID).
				Delete(&models.ShoppingListShare{}).Error
		}

		return forbidden("You don't have permission to delete this list.")
	})

	return outcome, err
}

// deleteLists removes lists with their items and share rows
func deleteLists(tx *gorm.DB, listIDs []uint64) error {
	if len(listIDs) == 0 {
		return nil
	}
	if err := tx.Where("shopping_list_id IN ?", listIDs).Delete(&models.Item{}).Error; err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if err := tx.Where("shopping_list_id IN ?", listIDs).Delete(&models.ShoppingListShare{}).Error; err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	if err := tx.Where("id IN ?", listIDs).Delete(&models.ShoppingList{}).Error; err != nil {
		return fmt.Errorf("failed to delete shopping lists: %w", err)
	}
	return nil
}

// ShareResult describes how a share request ended
type ShareResult struct {
	// Shared is false when the list was already shared with the recipient
	Shared    bool
	Message   string
	List      *models.ShoppingList
	Recipient *models.User
}

// ShareShoppingList grants the user registered under email access to a list
// the actor owns, and records a notification for the recipient.
func ShareShoppingList(ctx context.Context, db *gorm.DB, actor *models.User, listID uint64, email string) (*ShareResult, error) {
	email = strings.TrimSpace(email)
	result := &ShareResult{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := findVisibleList(tx, actor.ID, listID, true)
		if err != nil {
			return err
		}
		if !list.IsOwnedBy(actor.ID) {
			return forbidden(MsgShareOwnerOnly)
		}
		if strings.EqualFold(email, actor.Email) {
			return badRequest(MsgShareSelf)
		}

		recipient, err := FindUserByEmail(tx, email)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return badRequest(MsgUserNotFound)
			}
			return err
		}

		result.List = list
		result.Recipient = recipient

		if list.IsSharedWith(recipient.ID) {
			result.Message = fmt.Sprintf(MsgAlreadyShared, email)
			return nil
		}

		share := models.ShoppingListShare{ShoppingListID: list.ID, UserID: recipient.ID}
		if err := tx.Create(&share).Error; err != nil {
			return fmt.Errorf("failed to share list: %w", err)
		}

		data, err := models.NewJSON(models.ListSharedData{
			ShoppingListID:   list.ID,
			ShoppingListName: list.Name,
			SharedBy:         actor.Email,
		})
		if err != nil {
			return err
		}
		notification := models.Notification{
			UserID:  recipient.ID,
			Kind:    models.NotificationListShared,
			Title:   MsgShareSubject,
			Message: fmt.Sprintf(MsgShareBody, actor.Email),
			Data:    data,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to record notification: %w", err)
		}

		// Touch the list so clients polling "updated" see the change
		if err := tx.Model(list).UpdateColumn("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
			return err
		}

		result.Shared = true
		result.Message = MsgShared
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UnshareShoppingList removes targetUserID from the list's shared_with set.
// The owner may remove anyone; a shared user may only remove themself.
// A zero targetUserID is an invalid id.
func UnshareShoppingList(ctx context.Context, db *gorm.DB, actorID, listID, targetUserID uint64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := findVisibleList(tx, actorID, listID, true)
		if err != nil {
			return err
		}

		if targetUserID == 0 {
			return badRequest(MsgInvalidUserID)
		}

		var target models.User
		if err := tx.First(&target, targetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return badRequest(MsgUserNotFound)
			}
			return err
		}

		if !list.IsOwnedBy(actorID) && target.ID != actorID {
			return forbidden(MsgNoPermission)
		}

		if !list.IsSharedWith(target.ID) {
			return badRequest(MsgNotSharedWith)
		}

		return tx.Where("shopping_list_id = ? AND user_id = ?", list.ID, target.ID).
			Delete(&models.ShoppingListShare{}).Error
	})
}
