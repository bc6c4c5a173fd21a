// Package gcal provides a read-only client for the Google Calendar v3
// events feed
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "starpass/internal/platform/errors"
	"starpass/internal/platform/logger"
)

const (
	baseURLDefault = "https://www.googleapis.com/calendar/v3/calendars"
	defaultTimeout = 3 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client fetches calendar events. Single attempt per request, fixed timeout;
// any failure is a terminal transport error
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("gcal"),
	}
}

// Event is one calendar item with its resolved start/end instants
type Event struct {
	Summary string
	Start   time.Time
	End     time.Time
}

// wire types for the events feed
type eventsResponse struct {
	Items []eventItem `json:"items"`
}

type eventItem struct {
	Summary string    `json:"summary"`
	Start   eventTime `json:"start"`
	End     eventTime `json:"end"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

// at resolves an event boundary, preferring the timed form over all-day
func (et eventTime) at() (time.Time, error) {
	if et.DateTime != "" {
		return time.Parse(time.RFC3339, et.DateTime)
	}
	if et.Date != "" {
		return time.ParseInLocation("2006-01-02", et.Date, time.Local)
	}
	return time.Time{}, fmt.Errorf("event has no start/end instant")
}

// Events fetches one (calendar, query) page of events within the window,
// ordered by start time with recurrences expanded
func (c *Client) Events(ctx context.Context, calendarID, query string, timeMin, timeMax time.Time) ([]Event, error) {
	q := url.Values{}
	q.Set("orderBy", "startTime")
	q.Set("singleEvents", "true")
	if query != "" {
		q.Set("q", query)
	}
	q.Set("timeMin", timeMin.Format(time.RFC3339))
	q.Set("timeMax", timeMax.Format(time.RFC3339))
	if c.opts.APIKey != "" {
		q.Set("key", c.opts.APIKey)
	}
	u := fmt.Sprintf("%s/%s/events?%s", c.opts.BaseURL, url.PathEscape(calendarID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "gcal new request failed")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "gcal events %q failed", query)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("calendar", calendarID).
		Str("query", query).
		Int("status", resp.StatusCode).
		Msg("gcal http response")

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "gcal read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, perr.Newf(perr.ErrorCodeTransport, "gcal events status %d", resp.StatusCode)
	}

	var er eventsResponse
	if err := json.Unmarshal(b, &er); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "gcal decode events")
	}

	out := make([]Event, 0, len(er.Items))
	for _, it := range er.Items {
		start, err := it.Start.at()
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDateParse, "event %q start", it.Summary)
		}
		end, err := it.End.at()
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDateParse, "event %q end", it.Summary)
		}
		out = append(out, Event{Summary: it.Summary, Start: start, End: end})
	}
	return out, nil
}
