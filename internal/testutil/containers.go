// This file starts disposable database and Authorizer containers.
// It is used by the dialect integration tests and by cmd/testcontainers.
// Expects environment variables to be loaded from .env files.

package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/covematch/internal/config"
	"github.com/localnerve/covematch/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestContainers holds everything started for one run
type TestContainers struct {
	Network             *testcontainers.DockerNetwork
	DBContainer         testcontainers.Container
	AuthorizerContainer testcontainers.Container

	// Config points at the mapped host ports
	Config *config.Config
}

// Terminate stops every container and removes the network
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.AuthorizerContainer != nil {
		if err := tc.AuthorizerContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Authorizer: %v", err)
		}
	}
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

// dialectDefaults are the port and data directory each server image uses
var dialectDefaults = map[string]struct {
	port    string
	dataDir string
}{
	"mariadb":  {"3306", "/var/lib/mysql"},
	"mysql":    {"3306", "/var/lib/mysql"},
	"postgres": {"5432", "/var/lib/postgresql/data"},
}

func getDBInitEnvMap(dbType, database, user, password string) map[string]string {
	switch dbType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": password,
			"POSTGRES_USER":     user,
			"POSTGRES_DB":       database,
		}
	case "mariadb", "mysql":
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": password,
			"MYSQL_DATABASE":      database,
			"MYSQL_USER":          user,
			"MYSQL_PASSWORD":      password,
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// StartDatabase starts imageName as a dbType server on a fresh network and
// waits until it accepts connections. The data directory is a tmpfs.
func StartDatabase(ctx context.Context, t *testing.T, dbType, imageName string) (*TestContainers, error) {
	defaults, ok := dialectDefaults[dbType]
	if !ok {
		return nil, fmt.Errorf("no container support for %s", dbType)
	}
	tc := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	present, err := imageExists(ctx, imageName)
	if err != nil {
		logMessage(t, "Could not inspect local images: %v", err)
	} else if !present {
		logMessage(t, "Image %s not present locally, pulling...", imageName)
	}

	tcpDBPort, err := nat.NewPort("tcp", defaults.port)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dbName := getEnv("DB_DATABASE", "covematch")
	dbUser := getEnv("DB_USER", "covematch")
	dbPassword := getEnv("DB_PASSWORD", "covematch-test")
	dbAlias := getEnv("DB_HOST", "database")

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageName,
			ExposedPorts: []string{string(tcpDBPort)},
			Env:          getDBInitEnvMap(dbType, dbName, dbUser, dbPassword),
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				hostConfig.Tmpfs = map[string]string{defaults.dataDir: "rw"}
			},
			WaitingFor: wait.ForListeningPort(tcpDBPort).WithStartupTimeout(90 * time.Second),
			Networks:   []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {dbAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start %s: %w", dbType, err)
	}
	tc.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	port, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}

	tc.Config = &config.Config{
		DBType:            dbType,
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        dbName,
		DBUser:            dbUser,
		DBPassword:        dbPassword,
		DBConnectionLimit: 4,
		DBLogLevel:        "silent",
	}
	logMessage(t, "DB_HOST=%s DB_PORT=%s", host, port.Port())
	return tc, nil
}

// StartAuthorizer starts an Authorizer on the containers' network, backed by
// its own sqlite file, and records its URL in tc.Config.
func (tc *TestContainers) StartAuthorizer(ctx context.Context, t *testing.T, imageName string) error {
	authzPortNumber := getEnv("AUTHZ_PORT", "8080")
	tcpAuthzPort, err := nat.NewPort("tcp", authzPortNumber)
	if err != nil {
		return fmt.Errorf("failed to create Authorizer port: %w", err)
	}

	clientID := getEnv("AUTHZ_CLIENT_ID", "covematch-test")
	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageName,
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     clientID,
				"PORT":          authzPortNumber,
				"DATABASE_TYPE": "sqlite",
				"DATABASE_URL":  "authorizer.db",
				"ADMIN_SECRET":  getEnv("AUTHZ_ADMIN_SECRET", "covematch-admin"),
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{tc.Network.Name},
			NetworkAliases: map[string][]string{
				tc.Network.Name: {"authorizer"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start Authorizer: %w", err)
	}
	tc.AuthorizerContainer = authorizerContainer

	host, _ := authorizerContainer.Host(ctx)
	port, _ := authorizerContainer.MappedPort(ctx, tcpAuthzPort)
	tc.Config.AuthzURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	tc.Config.AuthzClientID = clientID
	logMessage(t, "AUTHZ_URL=%s", tc.Config.AuthzURL)
	return nil
}

// Connect opens and migrates the containerized database, retrying while the
// server finishes its first boot.
func (tc *TestContainers) Connect(t *testing.T) (*gorm.DB, error) {
	var lastErr error
	for i := 0; i < 30; i++ {
		db, err := database.Connect(tc.Config)
		if err == nil {
			if err = database.AutoMigrate(db); err == nil {
				return db, nil
			}
			_ = database.Close(db)
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("database not ready after 30 seconds: %w", lastErr)
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
