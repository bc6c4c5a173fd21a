package service

import (
	"reflect"
	"strings"
	"testing"

	perr "starpass/internal/platform/errors"
	"starpass/internal/services/shifts/domain"
)

func row(name, id, date, clock, dur, slots string) domain.RawRow {
	return domain.RawRow{NeedName: name, NeedID: id, StartDate: date, StartTime: clock, Duration: dur, Slots: slots}
}

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"need_name,need_id,start_date,start_time,duration,slots",
		"Adult Scrimmage,5001,1/1/99,12:00,60,20",
		"NSO,5003, 2024-09-06 , 18:00 ,150,4",
	}, "\n")

	rows, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	want := row("Adult Scrimmage", "5001", "1/1/99", "12:00", "60", "20")
	if rows[0] != want {
		t.Fatalf("rows[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].StartDate != "2024-09-06" || rows[1].StartTime != "18:00" {
		t.Fatalf("rows[1] not trimmed: %+v", rows[1])
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	in := "need_name,need_id,start_date,start_time,duration\nA,1,1/1/99,12:00,60"
	_, err := ReadCSV(strings.NewReader(in))
	if !perr.IsCode(err, perr.ErrorCodeDataLoad) {
		t.Fatalf("expected DataLoad error, got %v", err)
	}
}

func TestReadCSVFileUnreadable(t *testing.T) {
	_, err := ReadCSVFile(t.TempDir() + "/absent.csv")
	if !perr.IsCode(err, perr.ErrorCodeDataLoad) {
		t.Fatalf("expected DataLoad error, got %v", err)
	}
}

func TestTransformDedupIdempotence(t *testing.T) {
	r := row("Adult Scrimmage", "5001", "1/1/99", "12:00", "60", "20")
	rows := []domain.RawRow{r, r, r, r}

	p, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	env, _ := p.Group("5001")
	if len(env.Shifts) != 1 {
		t.Fatalf("duplicates survived: %d shifts", len(env.Shifts))
	}
}

func TestTransformGroupingPartition(t *testing.T) {
	rows := []domain.RawRow{
		row("A", "7", "1/1/99", "12:00", "60", "20"),
		row("B", "3", "1/2/99", "10:00", "30", "5"),
		row("C", "7", "1/3/99", "09:00", "90", "10"),
		row("D", "9", "1/4/99", "08:00", "45", "2"),
	}
	p, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}

	total := 0
	for _, id := range p.NeedIDs() {
		env, _ := p.Group(id)
		total += len(env.Shifts)
	}
	if total != len(rows) {
		t.Fatalf("partition cardinality = %d, want %d", total, len(rows))
	}
	if got := p.NeedIDs(); !reflect.DeepEqual(got, []string{"7", "3", "9"}) {
		t.Fatalf("group key order = %#v", got)
	}
}

func TestTransformOrderPreservation(t *testing.T) {
	rows := []domain.RawRow{
		row("A", "7", "1/1/99", "12:00", "60", "20"),
		row("B", "3", "1/2/99", "10:00", "30", "5"),
		row("C", "7", "1/3/99", "09:00", "90", "10"),
	}

	first, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	second, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}

	if !reflect.DeepEqual(first.NeedIDs(), second.NeedIDs()) {
		t.Fatalf("group order differs across runs: %#v vs %#v", first.NeedIDs(), second.NeedIDs())
	}
	for _, id := range first.NeedIDs() {
		a, _ := first.Group(id)
		b, _ := second.Group(id)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("group %s differs across runs", id)
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	rows := []domain.RawRow{row("Adult Scrimmage", "5001", "1/1/99", "12:00", "60", "20")}
	p, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	env, ok := p.Group("5001")
	if !ok || len(env.Shifts) != 1 {
		t.Fatalf("Group(5001) = %+v, %v", env, ok)
	}
	want := domain.ShiftRecord{Start: "1999-01-01 12:00", Duration: 60, Slots: 20}
	if env.Shifts[0] != want {
		t.Fatalf("shift = %+v, want %+v", env.Shifts[0], want)
	}
}

func TestTransformLenientDates(t *testing.T) {
	rows := []domain.RawRow{
		row("A", "1", "5/6/24", "11:30", "60", "2"),
		row("B", "2", "6 may 2024", "11:30 am", "60", "2"),
		row("C", "3", "may 6th, 2024", "11:30 a.m.", "60", "2"),
	}
	p, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform error: %v", err)
	}
	for _, id := range p.NeedIDs() {
		env, _ := p.Group(id)
		if env.Shifts[0].Start != "2024-05-06 11:30" {
			t.Fatalf("group %s start = %q, want 2024-05-06 11:30", id, env.Shifts[0].Start)
		}
	}
}

func TestTransformAbortsOnFirstBadDate(t *testing.T) {
	rows := []domain.RawRow{
		row("A", "1", "1/1/99", "12:00", "60", "2"),
		row("B", "2", "not a date", "nope", "60", "2"),
		row("C", "3", "1/3/99", "12:00", "60", "2"),
	}
	_, err := Transform(rows)
	if !perr.IsCode(err, perr.ErrorCodeDateParse) {
		t.Fatalf("expected DateParse error, got %v", err)
	}
}

func TestTransformBadIntsAreDataLoad(t *testing.T) {
	cases := []domain.RawRow{
		row("A", "1", "1/1/99", "12:00", "sixty", "2"),
		row("A", "1", "1/1/99", "12:00", "60", "lots"),
	}
	for _, r := range cases {
		_, err := Transform([]domain.RawRow{r})
		if !perr.IsCode(err, perr.ErrorCodeDataLoad) {
			t.Fatalf("row %+v: expected DataLoad error, got %v", r, err)
		}
	}
}
