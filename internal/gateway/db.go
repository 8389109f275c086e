package gateway

import (
	"database/sql"
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDialect = "sqlite3"

// OpenDB opens the SQLite store at path and verifies the connection.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// One connection: SQLite has a single writer, and ":memory:" databases
	// exist per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logrus.WithError(err).Warn("could not enable WAL journal")
	}
	return db, nil
}

func migrations() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// MigrateUp applies all pending schema migrations.
func MigrateUp(db *sql.DB) (int, error) {
	return migrate.Exec(db, migrationDialect, migrations(), migrate.Up)
}

// MigrateDown rolls back all applied schema migrations.
func MigrateDown(db *sql.DB) (int, error) {
	return migrate.Exec(db, migrationDialect, migrations(), migrate.Down)
}
