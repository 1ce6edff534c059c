//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/clash-manager-go/pkg/db/migrate"
	database "github.com/mpapenbr/clash-manager-go/pkg/db/postgres"
)

const (
	containerName = "clash-manager-test"
	image         = "postgres:16"
	dbUser        = "postgres"
	dbPassword    = "password"
	dbName        = "clash"
)

// startContainer starts (or reuses) the document database container and
// returns the url of the database inside.
func startContainer(ctx context.Context) (string, error) {
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		return "", err
	}
	req := testcontainers.ContainerRequest{
		Image:        image,
		Name:         containerName,
		ExposedPorts: []string{port.Port()},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
		Env: map[string]string{
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
			"POSTGRES_DB":       dbName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
			Reuse:            true,
		})
	if err != nil {
		return "", err
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		return "", err
	}
	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		dbUser, dbPassword, host, mapped.Port(), dbName), nil
}

// SetupTestDb returns a pool for the migrated database of the test container.
func SetupTestDb() *pgxpool.Pool {
	dbURL, err := startContainer(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	return migrateAndConnect(dbURL)
}

// SetupExternalTestDb uses the database given by TESTDB_URL.
func SetupExternalTestDb() *pgxpool.Pool {
	return migrateAndConnect(os.Getenv("TESTDB_URL"))
}

func migrateAndConnect(dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}
	pool, err := database.InitWithUrl(context.Background(), dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

// ClearDocuments removes all stored documents.
func ClearDocuments(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from document")
}
