package postgres

import (
	"database/sql"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// ApplyMigrations runs every goose migration found in dir of migrationFS.
func ApplyMigrations(connStr string, migrationFS fs.FS, dir string) error {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(db, dir)
}
