package sqlstore

import (
	"embed"
	"fmt"
	"io/fs"
)

// migrationsFS holds one migration tree per dialect. Files follow the
// timestamped up/down naming so the history of user_game_data is replayed
// in order: base table, then training_count, then settings_data.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the migration tree for driver, rooted at its directory
func MigrationsFS(driver string) (fs.FS, error) {
	var dir string
	switch driver {
	case DriverSQLite:
		dir = "migrations/sqlite"
	case DriverPostgres:
		dir = "migrations/postgres"
	default:
		return nil, fmt.Errorf("sqlstore: no migrations for driver %q", driver)
	}
	return fs.Sub(migrationsFS, dir)
}
