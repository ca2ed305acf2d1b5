package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PostgresStateRepository is the optional Postgres-backed dedup store,
// selected when DATABASE_URL is configured. It implements the same contract
// as the JSON file store: Load degrades to empty on failure, Save writes the
// full map.
type PostgresStateRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPostgresStateRepository(db *sql.DB, logger *logrus.Logger) *PostgresStateRepository {
	return &PostgresStateRepository{db: db, logger: logger}
}

// EnsureSchema creates the backing table if it does not exist.
func (r *PostgresStateRepository) EnsureSchema() error {
	query := `CREATE TABLE IF NOT EXISTS reminder_sends (
               dedup_key TEXT PRIMARY KEY,
               sent_for  TEXT NOT NULL
           )`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("error creating reminder_sends table: %w", err)
	}
	return nil
}

// Load reads all dedup entries. Any failure degrades to an empty map, which
// means "nothing sent yet"; the process must not die because the store is
// unreadable.
func (r *PostgresStateRepository) Load() map[string]string {
	state := map[string]string{}

	rows, err := r.db.Query(`SELECT dedup_key, sent_for FROM reminder_sends`)
	if err != nil {
		r.logger.Errorf("Could not load dedup state from database: %v. Treating as empty.", err)
		return state
	}
	defer rows.Close()

	for rows.Next() {
		var key, sentFor string
		if err := rows.Scan(&key, &sentFor); err != nil {
			r.logger.Errorf("Error scanning dedup state row: %v. Treating as empty.", err)
			return map[string]string{}
		}
		state[key] = sentFor
	}
	if err := rows.Err(); err != nil {
		r.logger.Errorf("Error iterating dedup state rows: %v. Treating as empty.", err)
		return map[string]string{}
	}
	return state
}

// Save upserts every entry of the map in one transaction.
func (r *PostgresStateRepository) Save(state map[string]string) error {
	txn, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for state save: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.Prepare(`INSERT INTO reminder_sends (dedup_key, sent_for)
                              VALUES ($1, $2)
                              ON CONFLICT (dedup_key) DO UPDATE SET sent_for = EXCLUDED.sent_for`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for state save: %w", err)
	}
	defer stmt.Close()

	for key, sentFor := range state {
		if _, err := stmt.Exec(key, sentFor); err != nil {
			return fmt.Errorf("error upserting dedup entry %s: %w", key, err)
		}
	}

	return txn.Commit()
}
