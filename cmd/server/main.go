package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/database"
	"github.com/localnerve/jam-build-shoppinglist/internal/logging"
	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
	"github.com/localnerve/jam-build-shoppinglist/internal/server"
	"go.uber.org/zap"
)

// @title Shopping List API
// @version 1.0.0
// @description Multi-tenant shopping list service with sharing between users
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/jam-build-shoppinglist
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description API token from /auth/token/login/, sent as "Token {key}"

func main() {
	envFile := flag.String("env", os.Getenv("ENV_FILE"), "optional .env file to load")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadFile(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, sync := logging.New(cfg.IsProduction())
	defer func() { _ = sync() }()

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	app, err := server.New(server.Deps{
		Config: cfg,
		DB:     db,
		Log:    logger,
		Mailer: mail.New(cfg, logger),
	})
	if err != nil {
		logger.Fatal("Failed to build server", zap.Error(err))
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("Server stopped")
}
