// Package db embeds the SQL migrations for the postgres record store.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
