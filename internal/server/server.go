// server.go
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

package server

import (
	"fmt"
	"io"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/handlers"
	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
	"github.com/localnerve/jam-build-shoppinglist/internal/middleware"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/localnerve/jam-build-shoppinglist/docs/api" // Swagger docs
)

const serviceName = "shoppinglist"

// Deps are the collaborators the HTTP app is built from
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	Mailer mail.Mailer

	// Registry receives the HTTP metrics; nil uses the default registry
	Registry *prometheus.Registry
	// AccessLog receives the access log lines; nil means stdout
	AccessLog io.Writer
}

// New builds the Fiber app with all middleware and routes
func New(d Deps) (*fiber.App, error) {
	anonRate, err := config.ParseRate(d.Config.ThrottleAnonRate)
	if err != nil {
		return nil, fmt.Errorf("anon throttle: %w", err)
	}
	userRate, err := config.ParseRate(d.Config.ThrottleUserRate)
	if err != nil {
		return nil, fmt.Errorf("user throttle: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(d.Log),
		DisableStartupMessage: d.Config.IsProduction(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	logConfig := logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}
	if d.AccessLog != nil {
		logConfig.Output = d.AccessLog
	}
	app.Use(logger.New(logConfig))
	app.Use(compress.New())

	// Prometheus metrics
	var metrics *fiberprometheus.FiberPrometheus
	if d.Registry != nil {
		metrics = fiberprometheus.NewWithRegistry(d.Registry, serviceName, "http", "", nil)
	} else {
		metrics = fiberprometheus.New(serviceName)
	}
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	health := &handlers.HealthHandler{Config: d.Config, DB: d.DB, Log: d.Log}
	auth := &handlers.AuthHandler{
		DB: d.DB,
		Lockout: &services.Lockout{
			Limit:   d.Config.LoginFailureLimit,
			Cooloff: d.Config.LoginCooloff,
		},
		Reset: &services.PasswordReset{
			Secret:      []byte(d.Config.SecretKey),
			Timeout:     d.Config.PasswordResetTimeout,
			FrontendURL: d.Config.FrontendURL,
			From:        d.Config.EmailHostUser,
			Mailer:      d.Mailer,
			Log:         d.Log,
		},
		Log: d.Log,
	}
	lists := &handlers.ShoppingListHandler{
		DB:     d.DB,
		Mailer: d.Mailer,
		From:   d.Config.EmailHostUser,
		Log:    d.Log,
	}
	items := &handlers.ItemHandler{DB: d.DB}
	notifications := &handlers.NotificationHandler{DB: d.DB}

	// API routes under /api
	api := app.Group("/api")

	// Health sits ahead of authentication and throttling
	api.Get("/health", health.Health)

	api.Use(middleware.Authenticate(d.DB))
	api.Use(middleware.Throttle(anonRate, userRate))

	// Account routes
	accounts := api.Group("/auth")
	accounts.Post("/register", auth.Register)
	accounts.Post("/token/login", auth.Login)
	accounts.Post("/users/reset_password", auth.ResetPassword)
	accounts.Post("/users/reset_password_confirm", auth.ResetPasswordConfirm)

	signedIn := middleware.RequireAuth()
	accounts.Post("/token/logout", signedIn, auth.Logout)
	accounts.Get("/users/me", signedIn, auth.Me)
	accounts.Put("/users/me", signedIn, auth.UpdateMe)
	accounts.Patch("/users/me", signedIn, auth.UpdateMe)
	accounts.Delete("/users/me", signedIn, auth.DeleteMe)
	accounts.Post("/users/set_password", signedIn, auth.SetPassword)

	// Shopping list routes (all require authentication)
	shopping := api.Group("/shoppinglist", signedIn)
	shopping.Get("/", lists.ListShoppingLists)
	shopping.Post("/", lists.CreateShoppingList)
	shopping.Get("/:pk", lists.GetShoppingList)
	shopping.Put("/:pk", lists.UpdateShoppingList)
	shopping.Patch("/:pk", lists.UpdateShoppingList)
	shopping.Delete("/:pk", lists.DeleteShoppingList)
	shopping.Put("/:pk/share", lists.ShareShoppingList)
	shopping.Patch("/:pk/unshare/:user_pk", lists.UnshareShoppingList)

	shopping.Get("/:pk/item", items.ListItems)
	shopping.Post("/:pk/item", items.CreateItem)
	shopping.Get("/:pk/item/:item_pk", items.GetItem)
	shopping.Put("/:pk/item/:item_pk", items.UpdateItem)
	shopping.Patch("/:pk/item/:item_pk", items.UpdateItem)
	shopping.Delete("/:pk/item/:item_pk", items.DeleteItem)

	// Notification routes
	inbox := api.Group("/notifications", signedIn)
	inbox.Get("/", notifications.ListNotifications)
	inbox.Post("/:pk/read", notifications.MarkRead)

	// Unmatched paths and methods fall through to ErrorHandler as 404 and 405

	return app, nil
}
