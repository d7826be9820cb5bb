package commands

import (
	"database/sql"

	"github.com/teranos/worktodo/db"
	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/logger"
)

// openDatabase opens the history ledger at dbPath and applies migrations
func openDatabase(dbPath string) (*sql.DB, error) {
	database, err := db.OpenWithMigrations(dbPath, logger.ComponentLogger("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open history database at %s", dbPath)
	}
	return database, nil
}
