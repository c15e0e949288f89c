package database

import (
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SaveCounter upserts one named counter value.
func SaveCounter(name string, value float64) error {
	query := `INSERT OR REPLACE INTO counters (name, value) VALUES (?, ?);`
	if _, err := DB.Exec(query, name, value); err != nil {
		return errors.Wrapf(err, "failed to save counter %s", name)
	}
	log.Debugf("counter saved: %s = %f", name, value)
	return nil
}

// GetCounter reads one named counter, defaulting to 0 when the counter
// has never been saved.
func GetCounter(name string) (float64, error) {
	var value float64
	query := `SELECT value FROM counters WHERE name = ?;`
	err := DB.QueryRow(query, name).Scan(&value)
	if err == sql.ErrNoRows {
		log.Debugf("counter %s not found, defaulting to 0", name)
		return 0, nil
	} else if err != nil {
		return 0, errors.Wrapf(err, "failed to get counter %s", name)
	}
	return value, nil
}
