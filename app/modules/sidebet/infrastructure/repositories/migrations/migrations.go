package sidebetmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the side-bet module's migration set.
var Migrations = migrate.NewMigrations()
