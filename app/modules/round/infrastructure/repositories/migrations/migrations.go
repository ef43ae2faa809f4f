package roundmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the round module's migration set.
var Migrations = migrate.NewMigrations()
