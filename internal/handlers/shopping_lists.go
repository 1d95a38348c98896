// shopping_lists.go
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
	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"github.com/localnerve/jam-build-shoppinglist/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShoppingListHandler handles shopping list routes
type ShoppingListHandler struct {
	DB     *gorm.DB
	Mailer mail.Mailer
	// From is the sender address of notification mail
	From string
	Log  *zap.Logger
}

// ListShoppingLists handles GET /api/shoppinglist/
// @Summary List shopping lists
// @Description Lists the caller's own lists and the lists shared with them, with items
// @Tags ShoppingLists
// @Produce json
// @Security TokenAuth
// @Success 200 {array} ShoppingListResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/ [get]
func (h *ShoppingListHandler) ListShoppingLists(c *fiber.Ctx) error {
	lists, err := services.ListShoppingLists(c.UserContext(), h.DB, currentUser(c).ID)
	if err != nil {
		return err
	}

	out := make([]ShoppingListResponse, 0, len(lists))
	for i := range lists {
		out = append(out, newShoppingListResponse(&lists[i]))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// CreateShoppingList handles POST /api/shoppinglist/
// @Summary Create a shopping list
// @Description Creates a list owned by the caller
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param list body object true "name, description, completed"
// @Success 201 {object} ShoppingListResponse
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/ [post]
func (h *ShoppingListHandler) CreateShoppingList(c *fiber.Ctx) error {
	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	in := shoppingListInput(p)
	if err := p.err(); err != nil {
		return err
	}

	list, err := services.CreateShoppingList(c.UserContext(), h.DB, currentUser(c).ID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newShoppingListResponse(list))
}

// GetShoppingList handles GET /api/shoppinglist/:pk/
// @Summary Get a shopping list
// @Tags ShoppingLists
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Success 200 {object} ShoppingListResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/ [get]
func (h *ShoppingListHandler) GetShoppingList(c *fiber.Ctx) error {
	listID, err := pathID(c, "pk")
	if err != nil {
		return err
	}

	list, err := services.GetShoppingList(c.UserContext(), h.DB, currentUser(c).ID, listID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(newShoppingListResponse(list))
}

// UpdateShoppingList handles PUT and PATCH /api/shoppinglist/:pk/
// @Summary Update a shopping list
// @Description PUT replaces the writable fields, PATCH changes only those sent. Owner and shared users may update.
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param list body object true "name, description, completed"
// @Success 200 {object} ShoppingListResponse
// @Failure 400 {object} utils.FieldErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/ [put]
// @Router /shoppinglist/{pk}/ [patch]
func (h *ShoppingListHandler) UpdateShoppingList(c *fiber.Ctx) error {
	listID, err := pathID(c, "pk")
	if err != nil {
		return err
	}

	p, err := decodePayload(c, c.Method() == fiber.MethodPatch)
	if err != nil {
		return err
	}
	in := shoppingListInput(p)
	if err := p.err(); err != nil {
		return err
	}

	list, err := services.UpdateShoppingList(c.UserContext(), h.DB, currentUser(c).ID, listID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(newShoppingListResponse(list))
}

// DeleteShoppingList handles DELETE /api/shoppinglist/:pk/
// @Summary Delete or leave a shopping list
// @Description The owner deletes the list with its items. A shared user is removed from the list, which stays for everyone else.
// @Tags ShoppingLists
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/ [delete]
func (h *ShoppingListHandler) DeleteShoppingList(c *fiber.Ctx) error {
	listID, err := pathID(c, "pk")
	if err != nil {
		return err
	}

	user := currentUser(c)
	outcome, err := services.DeleteShoppingList(c.UserContext(), h.DB, user.ID, listID)
	if err != nil {
		return err
	}

	if outcome == services.ListLeft {
		h.Log.Info("user left shared list", zap.Uint64("user_id", user.ID), zap.Uint64("list_id", listID))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ShareShoppingList handles PUT /api/shoppinglist/:pk/share/
// @Summary Share a shopping list
// @Description Shares the list with the user registered under email and notifies them. Owner only.
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param share body object true "email"
// @Success 200 {object} utils.ErrorResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/share/ [put]
func (h *ShoppingListHandler) ShareShoppingList(c *fiber.Ctx) error {
	listID, err := pathID(c, "pk")
	if err != nil {
		return err
	}

	p, err := decodePayload(c, false)
	if err != nil {
		return err
	}
	email := p.email("email")
	if err := p.err(); err != nil {
		return err
	}

	user := currentUser(c)
	result, err := services.ShareShoppingList(c.UserContext(), h.DB, user, listID, email)
	if err != nil {
		return err
	}

	if result.Shared {
		// the share stands even when the mail relay fails
		if err := services.NotifyListShared(c.UserContext(), h.Mailer, h.From, result, user.Email); err != nil {
			h.Log.Warn("share notification email failed",
				zap.Uint64("list_id", listID),
				zap.Uint64("recipient_id", result.Recipient.ID),
				zap.Error(err),
			)
		}
	}

	return utils.DetailResponse(c, result.Message, fiber.StatusOK)
}

// UnshareShoppingList handles PATCH /api/shoppinglist/:pk/unshare/:user_pk/
// @Summary Unshare a shopping list
// @Description The owner may remove any shared user; a shared user may only remove themself.
// @Tags ShoppingLists
// @Produce json
// @Security TokenAuth
// @Param pk path int true "Shopping list ID"
// @Param user_pk path int true "User ID"
// @Success 200 {object} utils.ErrorResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shoppinglist/{pk}/unshare/{user_pk}/ [patch]
func (h *ShoppingListHandler) UnshareShoppingList(c *fiber.Ctx) error {
	listID, err := pathID(c, "pk")
	if err != nil {
		return err
	}

	// zero marks an unparseable id, reported once the list is found
	targetID, _ := types.ParseID(c.Params("user_pk"))

	if err := services.UnshareShoppingList(c.UserContext(), h.DB, currentUser(c).ID, listID, targetID); err != nil {
		return err
	}
	return utils.DetailResponse(c, services.MsgUnshared, fiber.StatusOK)
}
