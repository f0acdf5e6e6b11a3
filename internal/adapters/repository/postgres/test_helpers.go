package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// tables lists every table truncated between tests, children first
var tables = []string{
	"processing_job",
	"submission_meta",
	"attachment_artifact",
	"attachment",
	"submission",
	"upload_chunk",
	"upload_session",
}

// migrationsDir walks up from the working directory to the module root
func migrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "db", "migrations"), nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", errors.New("go.mod not found in any parent directory")
		}
		wd = parent
	}
}

// NewTestDB starts a migrated postgres container. It returns the connection,
// a teardown func and a func emptying every table.
func NewTestDB(t *testing.T) (*sql.DB, func(), func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "starmus",
				"POSTGRES_PASSWORD": "starmus",
				"POSTGRES_DB":       "starmus_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("could not read container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("could not read container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://starmus:starmus@%s:%s/starmus_test?sslmode=disable", host, port.Port())

	dir, err := migrationsDir()
	if err != nil {
		t.Fatalf("could not locate migrations: %v", err)
	}

	// the migrator owns its own handle, it is closed once the schema is in place
	migrationDB, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open migration connection: %v", err)
	}
	m, err := NewMigrator(migrationDB, dir)
	if err != nil {
		t.Fatalf("failed to init migrator: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to run up migrations: %v", err)
	}
	m.Close()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	teardown := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	truncate := func() {
		query := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " CASCADE"
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("failed to truncate tables: %v", err)
		}
	}
	return db, teardown, truncate
}
