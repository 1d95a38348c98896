// common.go
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
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/middleware"
	"github.com/localnerve/jam-build-shoppinglist/internal/models"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/types"
	"github.com/localnerve/jam-build-shoppinglist/internal/utils"
	"go.uber.org/zap"
)

// Not found messages
const (
	MsgNotFound     = "Not found."
	MsgListNotFound = "ShoppingList not found."
	msgServerError  = "A server error occurred."

	msgMethodNotAllowed = `Method "%s" not allowed.`
)

// ErrorHandler renders handler errors as JSON. Field errors become a 400
// map, everything else a {"detail": ...} body.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			fieldErrs  types.FieldErrors
			customErr  *types.CustomError
			fiberErr   *fiber.Error
			validation validator.ValidationErrors
		)

		switch {
		case errors.As(err, &fieldErrs):
			return utils.FieldErrorResponse(c, fieldErrs)
		case errors.As(err, &validation):
			return utils.FieldErrorResponse(c, validationFieldErrors(validation))
		case errors.As(err, &customErr):
			return utils.DetailResponse(c, customErr.Message, customErr.Code)
		case errors.Is(err, services.ErrListNotFound):
			return utils.NotFoundResponse(c, MsgListNotFound)
		case errors.Is(err, services.ErrNotFound):
			return utils.NotFoundResponse(c, MsgNotFound)
		case errors.As(err, &fiberErr):
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				return utils.NotFoundResponse(c, MsgNotFound)
			case fiber.StatusMethodNotAllowed:
				return utils.DetailResponse(c, fmt.Sprintf(msgMethodNotAllowed, c.Method()), fiber.StatusMethodNotAllowed)
			}
			return utils.DetailResponse(c, fiberErr.Message, fiberErr.Code)
		}

		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		return utils.DetailResponse(c, msgServerError, fiber.StatusInternalServerError)
	}
}

// validationFieldErrors maps model validation failures onto request fields
func validationFieldErrors(verrs validator.ValidationErrors) types.FieldErrors {
	out := types.FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

// pathID reads a positive integer path parameter. Anything else is a miss.
func pathID(c *fiber.Ctx, name string) (uint64, error) {
	id, ok := types.ParseID(c.Params(name))
	if !ok {
		return 0, services.ErrNotFound
	}
	return id, nil
}

// currentUser is the authenticated caller; routes using it sit behind RequireAuth
func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}
