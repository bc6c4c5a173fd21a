// Package service implements the tabular shift pipeline: CSV load, transform,
// schema validation, and upload
package service

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"starpass/internal/platform/datetime"
	perr "starpass/internal/platform/errors"
	"starpass/internal/services/shifts/domain"
)

// Columns is the required header of a tabular shift input, in order
var Columns = []string{"need_name", "need_id", "start_date", "start_time", "duration", "slots"}

// ReadCSVFile loads rows from a CSV path
func ReadCSVFile(path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDataLoad, "open %q", path)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV parses shift rows, coercing every field to text. The header must
// name all six expected columns; column order and extras are tolerated
func ReadCSV(r io.Reader) ([]domain.RawRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDataLoad, "read csv header")
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			return nil, perr.DataLoadf("csv missing column %q", col)
		}
	}

	var rows []domain.RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDataLoad, "read csv row")
		}
		field := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }
		rows = append(rows, domain.RawRow{
			NeedName:  field("need_name"),
			NeedID:    field("need_id"),
			StartDate: field("start_date"),
			StartTime: field("start_time"),
			Duration:  field("duration"),
			Slots:     field("slots"),
		})
	}
	return rows, nil
}

// Transform runs the fixed pipeline: dedup, combine date+time, normalize the
// combined text to canonical form, project to the wire fields, and group by
// need id in first-seen order. The first unparseable date aborts the whole
// pipeline; there is no partial-success mode
func Transform(rows []domain.RawRow) (*domain.GroupedPayload, error) {
	deduped := dedup(rows)

	payload := domain.NewGroupedPayload()
	for _, row := range deduped {
		combined := row.StartDate + " " + row.StartTime

		start, err := datetime.Canonical(combined)
		if err != nil {
			return nil, perr.WithField(err, "start")
		}

		duration, err := strconv.Atoi(row.Duration)
		if err != nil {
			return nil, perr.WithField(perr.DataLoadf("row %q: duration %q is not an integer", row.NeedName, row.Duration), "duration")
		}
		slots, err := strconv.Atoi(row.Slots)
		if err != nil {
			return nil, perr.WithField(perr.DataLoadf("row %q: slots %q is not an integer", row.NeedName, row.Slots), "slots")
		}

		payload.Add(row.NeedID, domain.ShiftRecord{
			Start:    start,
			Duration: duration,
			Slots:    slots,
		})
	}
	return payload, nil
}

// dedup removes exact-duplicate rows keeping the first occurrence
func dedup(rows []domain.RawRow) []domain.RawRow {
	seen := make(map[domain.RawRow]struct{}, len(rows))
	out := make([]domain.RawRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
