//go:build integration

package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iliyamo/movie-catalog/internal/database"
)

const (
	DefaultMySQLImage = "mysql:8.0"
	mysqlPort         = "3306"

	MySQLUser     = "catalog"
	MySQLPassword = "catalog"
	MySQLDatabase = "movies"
)

// MySQLContainer is a running MySQL server with the catalog schema applied.
type MySQLContainer struct {
	testcontainers.Container
	DB *sql.DB
}

// NewMySQLContainer starts MySQL, waits until it accepts connections and
// runs database.Migrate against it.
func NewMySQLContainer(ctx context.Context) (*MySQLContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMySQLImage,
		ExposedPorts: []string{mysqlPort + "/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_USER":          MySQLUser,
			"MYSQL_PASSWORD":      MySQLPassword,
			"MYSQL_DATABASE":      MySQLDatabase,
		},
		WaitingFor: wait.ForListeningPort(mysqlPort + "/tcp").WithStartupTimeout(2 * time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mysql container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, mysqlPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	db, err := sql.Open("mysql", database.DSN(MySQLUser, MySQLPassword, host, port.Port(), MySQLDatabase))
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	ready := func() bool {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}
	if err := WaitForReady(ctx, ready, time.Minute); err != nil {
		db.Close()
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("wait for mysql: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return &MySQLContainer{Container: container, DB: db}, nil
}

// StartMySQL is NewMySQLContainer for tests: it skips without Docker and
// registers cleanup.
func StartMySQL(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()
	c, err := NewMySQLContainer(ctx)
	if err != nil {
		t.Fatalf("start mysql: %v", err)
	}
	t.Cleanup(func() {
		c.DB.Close()
		CleanupContainer(t, ctx, c.Container)
	})
	return c.DB
}
