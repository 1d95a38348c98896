// item_service.go
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
	"fmt"

	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// visibleListID checks the parent list exists and is visible to userID
func visibleListID(db *gorm.DB, userID, listID uint64) error {
	var count int64
	err := db.Model(&models.ShoppingList{}).
		Scopes(visibleTo(userID)).
		Where("shopping_lists.id = ?", listID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to look up shopping list: %w", err)
	}
	if count == 0 {
		return ErrListNotFound
	}
	return nil
}

// ListItems returns the items of a visible list, incomplete items first
func ListItems(ctx context.Context, db *gorm.DB, userID, listID uint64) ([]models.Item, error) {
	db = db.WithContext(ctx)
	if err := visibleListID(db, userID, listID); err != nil {
		return nil, err
	}

	items := []models.Item{}
	err := db.Clauses(hints.Comment("select", "item:list")).
		Where("shopping_list_id = ?", listID).
		Order(models.ItemOrder).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// GetItem returns one item of a visible list
func GetItem(ctx context.Context, db *gorm.DB, userID, listID, itemID uint64) (*models.Item, error) {
	db = db.WithContext(ctx)
	if err := visibleListID(db, userID, listID); err != nil {
		return nil, err
	}
	return findItem(db, listID, itemID)
}

func findItem(db *gorm.DB, listID, itemID uint64) (*models.Item, error) {
	var item models.Item
	if err := db.Where("shopping_list_id = ?", listID).First(&item, itemID).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &item, nil
}

// CreateItem adds an item to a visible list
func CreateItem(ctx context.Context, db *gorm.DB, userID, listID uint64, in ItemInput) (*models.Item, error) {
	db = db.WithContext(ctx)
	if err := visibleListID(db, userID, listID); err != nil {
		return nil, err
	}

	item := models.Item{ShoppingListID: listID}
	applyItemInput(&item, in)

	if err := db.Omit(clause.Associations).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &item, nil
}

// UpdateItem applies in to an item of a visible list
func UpdateItem(ctx context.Context, db *gorm.DB, userID, listID, itemID uint64, in ItemInput) (*models.Item, error) {
	var item *models.Item

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := visibleListID(tx, userID, listID); err != nil {
			return err
		}

		found, err := findItem(tx.Clauses(clause.Locking{Strength: "UPDATE"}), listID, itemID)
		if err != nil {
			return err
		}

		applyItemInput(found, in)
		if err := tx.Omit(clause.Associations).Save(found).Error; err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item from a visible list
func DeleteItem(ctx context.Context, db *gorm.DB, userID, listID, itemID uint64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := visibleListID(tx, userID, listID); err != nil {
			return err
		}

		item, err := findItem(tx, listID, itemID)
		if err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

func applyItemInput(item *models.Item, in ItemInput) {
	if in.Product != nil {
		item.Product = *in.Product
	}
	if in.Quantity.Set {
		item.Quantity = in.Quantity.Value
	}
	if in.Unit.Set {
		item.Unit = in.Unit.Value
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Note.Set {
		item.Note = in.Note.Value
	}
	if in.Completed != nil {
		item.Completed = *in.Completed
	}
}
