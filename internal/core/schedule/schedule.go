// Package schedule computes shift start/duration values from raw event
// windows and a need instance's configured offsets
package schedule

import (
	"time"

	"starpass/internal/catalog"
	"starpass/internal/platform/datetime"
)

// Shift is the normalized output of Compute: a canonical start split into
// date and clock strings plus a duration in minutes
type Shift struct {
	StartDate string
	StartTime string
	Duration  int
}

// Compute applies the instance's start/end offsets to the raw event window
// and derives the shift duration in minutes.
//
// Duration uses only the sub-day component of the adjusted delta, so a
// window spanning multiple days keeps just the remainder below 24h. This
// matches the historical behavior and is relied on by downstream data;
// do not "fix" it here. A configured MaxLength caps the result
func Compute(inst catalog.Instance, rawStart, rawEnd time.Time) Shift {
	start := rawStart.Add(time.Duration(inst.OffsetStart) * time.Minute)
	end := rawEnd.Add(time.Duration(inst.OffsetEnd) * time.Minute)

	secs := int64(end.Sub(start) / time.Second)
	secs = ((secs % 86400) + 86400) % 86400
	minutes := int(secs / 60)

	if inst.MaxLength > 0 && minutes > inst.MaxLength {
		minutes = inst.MaxLength
	}

	date, clock := datetime.SplitCanonical(start)
	return Shift{StartDate: date, StartTime: clock, Duration: minutes}
}
