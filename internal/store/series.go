package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Series is a saved sampling query run on a recurring schedule.
// Frequency is in days; 0 disables the series.
type Series struct {
	ID         int64
	Definition string
	Frequency  int
	Owner      string
}

// User is the owner identity a series executes under.
type User struct {
	Login   string
	IsAdmin bool
}

// ListSeries returns every saved series ordered by id.
func (s *Store) ListSeries(ctx context.Context) ([]Series, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, definition, frequency, owner
		FROM series
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var list []Series
	for rows.Next() {
		var sr Series
		if err := rows.Scan(&sr.ID, &sr.Definition, &sr.Frequency, &sr.Owner); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		list = append(list, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}

	return list, nil
}

// LookupUser returns the user a series executes under.
func (s *Store) LookupUser(ctx context.Context, login string) (User, error) {
	u := User{Login: login}
	err := s.db.QueryRowContext(ctx, `
		SELECT is_admin FROM users WHERE login = ?
	`, login).Scan(&u.IsAdmin)
	if err == sql.ErrNoRows {
		return User{}, fmt.Errorf("lookup user %q: not found", login)
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user %q: %w", login, err)
	}
	return u, nil
}

// UpsertSeriesPoint records the sampled value for (seriesID, date),
// replacing any point from an earlier run of the same date. Delete and
// insert happen in one transaction so an interrupted run never leaves two
// points or a stale duplicate.
func (s *Store) UpsertSeriesPoint(ctx context.Context, seriesID int64, date string, value int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert series point: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM series_data WHERE series_id = ? AND date = ?
	`, seriesID, date); err != nil {
		return fmt.Errorf("upsert series point: delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO series_data (series_id, date, value) VALUES (?, ?, ?)
	`, seriesID, date, value); err != nil {
		return fmt.Errorf("upsert series point: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert series point: commit: %w", err)
	}
	return nil
}

// SeriesPoint reads back the stored value for (seriesID, date).
// Returns found=false when no point exists.
func (s *Store) SeriesPoint(ctx context.Context, seriesID int64, date string) (value int, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT value FROM series_data WHERE series_id = ? AND date = ?
	`, seriesID, date).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query series point: %w", err)
	}
	return value, true, nil
}
