// Package domain holds the calendar ingestion data structures
package domain

import (
	"context"
	"strconv"
	"time"

	"starpass/internal/adapters/gcal"
)

// Window bounds one ingestion run
type Window struct {
	Min time.Time
	Max time.Time
}

// ShiftRow is one derived shift in tabular form, matching the input columns
// of the shift pipeline. NeedName carries the matched keyword for provenance
type ShiftRow struct {
	NeedName  string
	NeedID    string
	StartDate string
	StartTime string
	Duration  int
	Slots     int
}

// Record renders the row in the fixed CSV column order
func (r ShiftRow) Record() []string {
	return []string{
		r.NeedName,
		r.NeedID,
		r.StartDate,
		r.StartTime,
		strconv.Itoa(r.Duration),
		strconv.Itoa(r.Slots),
	}
}

// EventSource is the slice of the calendar feed the ingester depends on
type EventSource interface {
	Events(ctx context.Context, calendarID, query string, timeMin, timeMax time.Time) ([]gcal.Event, error)
}
