package auth

import "embed"

// MigrationsDir is the path of the embedded SQL migrations inside
// MigrationsFS.
const MigrationsDir = "data/sql/migrations"

//go:embed data/sql/migrations/*.sql
var MigrationsFS embed.FS
