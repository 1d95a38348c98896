// items.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"gorm.io/gorm"
)

// ItemHandler handles the item routes nested under a shopping list
type ItemHandler struct {
	DB *gorm.DB
}

// listID reads the parent list id; an unusable id is a missing list
func listID(c *fiber.Ctx) (uint64, error) {
	id, err := pathID(c, "pk")
	if err != nil {
		return 0, services.ErrListNotFound
	}
	return id, nil
}

// ListItems handles GET /api/shoppinglist/:pk/item/
// @Summary List items
// @Description Items of a visible list, incomplete items first
// @Tags Items
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Success 200 {array} ItemResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/item/ [get]
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	parentID, err := listID(c)
	if err != nil {
		return err
	}

	items, err := services.ListItems(c.UserContext(), h.DB, currentUser(c).ID, parentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(newItemResponses(items))
}

// CreateItem handles POST /api/shoppinglist/:pk/item/
// @Summary Add an item
// @Tags Items
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param item body object true "product, category, quantity, unit, note, completed"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/item/ [post]
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	parentID, err := listID(c)
	if err != nil {
		return err
	}

	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	in := itemInput(p)
	if err := p.err(); err != nil {
		return err
	}

	item, err := services.CreateItem(c.UserContext(), h.DB, currentUser(c).ID, parentID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newItemResponse(item))
}

// GetItem handles GET /api/shoppinglist/:pk/item/:item_pk/
// @Summary Get an item
// @Tags Items
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param item_pk path int true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/item/{item_pk}/ [get]
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	parentID, err := listID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_pk")
	if err != nil {
		return err
	}

	item, err := services.GetItem(c.UserContext(), h.DB, currentUser(c).ID, parentID, itemID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(newItemResponse(item))
}

// UpdateItem handles PUT and PATCH /api/shoppinglist/:pk/item/:item_pk/
// @Summary Update an item
// @Description PUT requires product and category, PATCH changes only the fields sent
// @Tags Items
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param item_pk path int true "Item ID"
// @Param item body object true "product, category, quantity, unit, note, completed"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/item/{item_pk}/ [put]
// @Router /shoppinglist/{pk}/item/{item_pk}/ [patch]
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	parentID, err := listID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_pk")
	if err != nil {
		return err
	}

	p, err := decodePayload(c, c.Method() == fiber.MethodPatch)
	if err != nil {
		return err
	}
	in := itemInput(p)
	if err := p.err(); err != nil {
		return err
	}

	item, err := services.UpdateItem(c.UserContext(), h.DB, currentUser(c).ID, parentID, itemID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(newItemResponse(item))
}

// DeleteItem handles DELETE /api/shoppinglist/:pk/item/:item_pk/
// @Summary Delete an item
// @Tags Items
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param item_pk path int true "Item ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/item/{item_pk}/ [delete]
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	parentID, err := listID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "item_pk")
	if err != nil {
		return err
	}

	if err := services.DeleteItem(c.UserContext(), h.DB, currentUser(c).ID, parentID, itemID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
