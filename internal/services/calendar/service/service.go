// Package service implements calendar ingestion: fetch events over a time
// window, resolve each title to configured needs, and emit shift rows for
// the tabular pipeline
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"starpass/internal/adapters/gcal"
	"starpass/internal/catalog"
	"starpass/internal/core/match"
	"starpass/internal/core/schedule"
	perr "starpass/internal/platform/errors"
	"starpass/internal/platform/logger"
	"starpass/internal/services/calendar/domain"
)

// Ingester derives shift rows from one calendar namespace
type Ingester struct {
	Catalog *catalog.Catalog
	Source  domain.EventSource

	// MinScore is forwarded to the matcher; zero keeps the historical
	// best-candidate-always-wins behavior
	MinScore float64
}

// Ingest fetches events for every configured query string (or the override
// when non-empty) and fans each event out into one row per matched need
// instance. Items are concatenated across query strings without
// deduplication; distinct queries are expected to be mutually exclusive
func (g *Ingester) Ingest(ctx context.Context, namespace string, window domain.Window, queryOverride []string) ([]domain.ShiftRow, error) {
	log := logger.C(ctx)

	cal, err := g.Catalog.Resolve(namespace)
	if err != nil {
		return nil, err
	}
	queries := cal.Queries
	if len(queryOverride) > 0 {
		queries = queryOverride
	}
	if len(queries) == 0 {
		return nil, perr.Configf("calendar %q has no query strings", namespace)
	}

	var events []gcal.Event
	for _, q := range queries {
		items, err := g.Source.Events(ctx, cal.CalendarID, q, window.Min, window.Max)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("query", q).Int("items", len(items)).Msg("calendar query fetched")
		events = append(events, items...)
	}

	m := match.New(cal, match.WithMinScore(g.MinScore))

	var rows []domain.ShiftRow
	for _, ev := range events {
		keyword, need, err := m.Match(ev.Summary)
		if err != nil {
			return nil, err
		}
		for _, inst := range need.Instances {
			s := schedule.Compute(inst, ev.Start, ev.End)
			rows = append(rows, domain.ShiftRow{
				NeedName:  keyword,
				NeedID:    inst.ID,
				StartDate: s.StartDate,
				StartTime: s.StartTime,
				Duration:  s.Duration,
				Slots:     inst.Slots,
			})
		}
	}

	log.Info().
		Str("namespace", namespace).
		Int("events", len(events)).
		Int("rows", len(rows)).
		Msg("calendar ingest complete")
	return rows, nil
}

// header is the fixed CSV column order consumed by the shift pipeline
var header = []string{"need_name", "need_id", "start_date", "start_time", "duration", "slots"}

// WriteCSV writes rows to a timestamped file in dir and returns the path.
// The timestamp identifies the ingestion run, not the content
func WriteCSV(rows []domain.ShiftRow, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("gcal_shifts_%s.csv", now.Format(time.RFC3339)))

	f, err := os.Create(path)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeDataLoad, "create %q", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeDataLoad, "write csv header")
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeDataLoad, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeDataLoad, "flush csv")
	}
	return path, nil
}
