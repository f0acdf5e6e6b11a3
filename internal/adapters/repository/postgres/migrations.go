package postgres

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// NewMigrator returns a migrate instance applying the SQL files under dir to db.
// Closing the migrator closes db.
func NewMigrator(db *sql.DB, dir string) (*migrate.Migrate, error) {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations dir %s: %w", dir, err)
	}
	source := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	m, err := migrate.NewWithDatabaseInstance(source.String(), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator from %s: %w", source, err)
	}
	return m, nil
}
