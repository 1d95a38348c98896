package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/database"
	"github.com/localnerve/jam-build-shoppinglist/internal/logging"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DBNetworkAlias is the database host name inside the container network
const DBNetworkAlias = "shoppinglist-db"

// TestContainers is a database server started for tests or local development
type TestContainers struct {
	Network     *testcontainers.DockerNetwork
	DBContainer testcontainers.Container

	// Config points at the mapped host port
	Config *config.Config
}

// Terminate stops the container and removes its network
func (tc *TestContainers) Terminate(t testing.TB) {
	ctx := context.Background()
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// dbSettings are the container image, port and init env for a DB_TYPE
func dbSettings(dbType, database, user, password string) (image, port string, env map[string]string, err error) {
	switch dbType {
	case "postgres", "postgresql":
		return "postgres:16-alpine", "5432", map[string]string{
			"POSTGRES_DB":       database,
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
		}, nil
	case "mysql", "mariadb":
		return "mariadb:11", "3306", map[string]string{
			"MARIADB_ROOT_PASSWORD": getEnvDefault("DB_ROOT_PASSWORD", password),
			"MARIADB_DATABASE":      database,
			"MARIADB_USER":          user,
			"MARIADB_PASSWORD":      password,
		}, nil
	}
	return "", "", nil, fmt.Errorf("no test container for DB_TYPE %q", dbType)
}

// CreateDBContainer starts the database selected by DB_TYPE (postgres by
// default) and waits until it accepts queries. DB_IMAGE overrides the image.
// t may be nil when running outside a test.
func CreateDBContainer(t testing.TB) (*TestContainers, error) {
	ctx := context.Background()
	tc := &TestContainers{}

	dbType := getEnvDefault("DB_TYPE", "postgres")
	dbName := getEnvDefault("DB_DATABASE", "shoppinglist")
	dbUser := getEnvDefault("DB_USER", "shoppinglist")
	dbPassword := getEnvDefault("DB_PASSWORD", "shoppinglist")

	image, portNumber, env, err := dbSettings(dbType, dbName, dbUser, dbPassword)
	if err != nil {
		return nil, err
	}
	image = getEnvDefault("DB_IMAGE", image)

	// Create a network
	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	tcpDBPort, err := nat.NewPort("tcp", portNumber)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpDBPort)},
			Env:          env,
			WaitingFor:   wait.ForListeningPort(tcpDBPort).WithStartupTimeout(90 * time.Second),
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {DBNetworkAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	tc.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	tc.Config = &config.Config{
		DBType:            dbType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        dbName,
		DBUser:            dbUser,
		DBPassword:        dbPassword,
		DBConnectionLimit: 5,
		DBLogLevel:        "silent",
	}

	if err := waitForQueries(ctx, tc.Config); err != nil {
		tc.Terminate(t)
		return nil, err
	}

	logMessage(t, "DB_HOST=%s DB_PORT=%s", host, mapped.Port())
	return tc, nil
}

// waitForQueries retries until the server answers a ping; the listening
// port opens before the init scripts finish.
func waitForQueries(ctx context.Context, cfg *config.Config) error {
	var lastErr error
	for i := 0; i < 30; i++ {
		db, err := database.Connect(cfg, logging.Nop())
		if err == nil {
			err = database.Ping(ctx, db)
			_ = database.Close(db)
			if err == nil {
				return nil
			}
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return fmt.Errorf("database not ready after 30 seconds: %w", lastErr)
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func logMessage(t testing.TB, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
