package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
)

// DateLayout is the ISO date format used for game dates and cursors.
const DateLayout = "2006-01-02"

// ErrNoCursor means no last_update row exists for the requested key.
var ErrNoCursor = errors.New("no cursor recorded")

// ReadCursor returns the last fully processed date for updateType.
func ReadCursor(ctx context.Context, q db.Querier, updateType string) (string, error) {
	var date string
	err := q.QueryRow(ctx,
		`SELECT last_date FROM `+config.LastUpdateTable+` WHERE update_type = ?`, updateType,
	).Scan(&date)
	if errors.Is(err, db.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", updateType, ErrNoCursor)
	}
	if err != nil {
		return "", fmt.Errorf("read cursor %s: %w", updateType, err)
	}
	return date, nil
}

// AdvanceCursor records date for updateType unless a later date is already
// stored, so the cursor never moves backwards.
func AdvanceCursor(ctx context.Context, q db.Querier, updateType, date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("cursor date %q: %w", date, err)
	}
	err := q.Exec(ctx, `
		INSERT INTO `+config.LastUpdateTable+` (update_type, last_date) VALUES (?, ?)
		ON CONFLICT (update_type) DO UPDATE SET
			last_date = CASE
				WHEN EXCLUDED.last_date > `+config.LastUpdateTable+`.last_date THEN EXCLUDED.last_date
				ELSE `+config.LastUpdateTable+`.last_date
			END`,
		updateType, date)
	if err != nil {
		return fmt.Errorf("advance cursor %s to %s: %w", updateType, date, err)
	}
	return nil
}

// yesterday returns the calendar day before now in loc.
func yesterday(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, loc)
}

// dateRange lists every date from start through end inclusive.
func dateRange(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}
