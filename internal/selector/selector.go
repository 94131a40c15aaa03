package selector

import (
	"fmt"
	"time"

	"aifsfetch/internal/models"
)

// Select returns the latest run expected to be published at now.
// Cycles appear a few hours after their nominal time, so the table lags
// the wall clock by one cycle; hours before 06Z fall back to yesterday's 18Z.
func Select(now time.Time) models.Run {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	hour := now.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return models.Run{Cycle: models.Cycle00, ReferenceDate: today}
	case hour >= 12 && hour < 18:
		return models.Run{Cycle: models.Cycle06, ReferenceDate: today}
	case hour >= 18:
		return models.Run{Cycle: models.Cycle12, ReferenceDate: today}
	default:
		return models.Run{Cycle: models.Cycle18, ReferenceDate: today.AddDate(0, 0, -1)}
	}
}

// Parse reads a run given as YYYYMMDDHH, e.g. "2025060112"
func Parse(s string) (models.Run, error) {
	t, err := time.Parse("2006010215", s)
	if err != nil {
		return models.Run{}, fmt.Errorf("invalid run %q (want YYYYMMDDHH): %w", s, err)
	}

	cycle := models.Cycle(fmt.Sprintf("%02d", t.Hour()))
	if !cycle.Valid() {
		return models.Run{}, fmt.Errorf("invalid run %q: cycle must be one of 00, 06, 12, 18", s)
	}

	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return models.Run{Cycle: cycle, ReferenceDate: date}, nil
}
