package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS meetings (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			start_date    DATE NOT NULL,
			end_date      DATE NOT NULL,
			min_time      TEXT NOT NULL,
			max_time      TEXT NOT NULL,
			interval_size REAL NOT NULL CHECK(interval_size > 0),
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(end_date > start_date),
			CHECK(max_time > min_time)
		);

		CREATE TABLE IF NOT EXISTS selections (
			meeting_id     TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			participant_id TEXT NOT NULL,
			date           DATE NOT NULL,
			ranges         TEXT NOT NULL,
			interval_size  REAL NOT NULL,
			updated_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (meeting_id, participant_id, date)
		);

		CREATE INDEX IF NOT EXISTS idx_selections_meeting_date ON selections(meeting_id, date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
