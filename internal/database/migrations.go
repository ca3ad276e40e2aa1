package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations lists all schema migrations in version order. The schema ships
// embedded so the service needs no migrations directory on disk.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_segments",
		SQL: `
			CREATE TABLE IF NOT EXISTS segments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				distance_meters REAL NOT NULL DEFAULT 0,
				center_lat REAL,
				center_lon REAL,
				radius_mean REAL NOT NULL DEFAULT 0,
				radius_sd REAL NOT NULL DEFAULT 0,
				activity_type TEXT,
				sample_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_segments_start_time ON segments(start_time);
		`,
	},
	{
		Version: 2,
		Name:    "create_samples",
		SQL: `
			CREATE TABLE IF NOT EXISTS samples (
				id TEXT PRIMARY KEY,
				timestamp INTEGER NOT NULL,
				latitude REAL,
				longitude REAL,
				horizontal_accuracy REAL,
				altitude REAL,
				vertical_accuracy REAL,
				course REAL,
				speed REAL,
				raw_fixes TEXT,
				filtered_fixes TEXT,
				moving_state TEXT NOT NULL,
				recording_state TEXT NOT NULL,
				step_frequency REAL,
				course_variance REAL,
				lateral_acceleration REAL,
				vertical_acceleration REAL,
				top_activity_type TEXT,
				classifier_results TEXT,
				segment_id INTEGER REFERENCES segments(id),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_samples_timestamp ON samples(timestamp);
			CREATE INDEX IF NOT EXISTS idx_samples_segment_id ON samples(segment_id);
		`,
	},
}

// Migrate applies all pending migrations
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return err
		}
		_, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
		return err
	})
}
