package database

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the sqlite file and prepares the counter table. Only
// aggregate counters are persisted; delivery requests themselves stay
// transient and single-use.
func InitDB(dbPath string) error {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "could not create database directory %s", dir)
		}
	}

	var err error
	DB, err = sql.Open("sqlite", dbPath)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}

	createCountersTable := `
	CREATE TABLE IF NOT EXISTS counters (
		name TEXT NOT NULL PRIMARY KEY,
		value REAL NOT NULL
	);`
	if _, err = DB.Exec(createCountersTable); err != nil {
		return errors.Wrap(err, "failed to create counters table")
	}

	log.Debug("database initialized successfully")
	return nil
}

func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
