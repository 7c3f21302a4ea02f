package migrations

import "github.com/uptrace/bun/migrate"

// Migrations contains all database migrations.
var Migrations = migrate.NewMigrations() //nolint:gochecknoglobals // -
