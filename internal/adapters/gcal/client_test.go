package gcal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "starpass/internal/platform/errors"
)

func window() (time.Time, time.Time) {
	min := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	return min, min.AddDate(0, 1, 0)
}

func TestEvents(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"items":[
			{"summary":"Adult Scrimmage","start":{"dateTime":"2024-09-06T18:00:00-07:00"},"end":{"dateTime":"2024-09-06T20:00:00-07:00"}},
			{"summary":"Officials Practice","start":{"dateTime":"2024-09-07T10:00:00-07:00"},"end":{"dateTime":"2024-09-07T12:30:00-07:00"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k-1"})
	min, max := window()
	events, err := c.Events(context.Background(), "cal@group.calendar.google.com", "scrimmage", min, max)
	if err != nil {
		t.Fatalf("Events error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Summary != "Adult Scrimmage" {
		t.Fatalf("events[0].Summary = %q", events[0].Summary)
	}
	if events[0].End.Sub(events[0].Start) != 2*time.Hour {
		t.Fatalf("events[0] span = %v", events[0].End.Sub(events[0].Start))
	}

	if gotPath != "/cal@group.calendar.google.com/events" {
		t.Fatalf("path = %q", gotPath)
	}
	for k, want := range map[string]string{
		"orderBy":      "startTime",
		"singleEvents": "true",
		"q":            "scrimmage",
		"key":          "k-1",
		"timeMin":      min.Format(time.RFC3339),
		"timeMax":      max.Format(time.RFC3339),
	} {
		if gotQuery[k] != want {
			t.Fatalf("query %s = %q, want %q", k, gotQuery[k], want)
		}
	}
}

func TestEventsAllDayFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"summary":"Setup Day","start":{"date":"2024-09-06"},"end":{"date":"2024-09-07"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	min, max := window()
	events, err := c.Events(context.Background(), "cal", "", min, max)
	if err != nil {
		t.Fatalf("Events error: %v", err)
	}
	if len(events) != 1 || events[0].Start.Day() != 6 {
		t.Fatalf("events = %+v", events)
	}
}

func TestEventsNon2xxIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	min, max := window()
	_, err := c.Events(context.Background(), "cal", "q", min, max)
	if !perr.IsCode(err, perr.ErrorCodeTransport) {
		t.Fatalf("expected Transport error, got %v", err)
	}
}

func TestEventsMissingInstantIsDateParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"summary":"Broken","start":{},"end":{}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	min, max := window()
	_, err := c.Events(context.Background(), "cal", "q", min, max)
	if !perr.IsCode(err, perr.ErrorCodeDateParse) {
		t.Fatalf("expected DateParse error, got %v", err)
	}
}
