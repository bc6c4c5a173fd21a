// Package amplify provides a client for the Galaxy Digital Amplify REST API
package amplify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	perr "starpass/internal/platform/errors"
	"starpass/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.galaxydigital.com/api"
	defaultTimeout = 3 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a minimal Amplify REST client. Requests are single-attempt with
// a fixed timeout: any connection failure, timeout, or non-2xx status is a
// terminal transport error for the run
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
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
		log:  *logger.Named("amplify"),
		now:  time.Now,
	}
}

// ShiftsURL returns the create-shifts endpoint for a need, for report display
func (c *Client) ShiftsURL(needID string) string {
	return fmt.Sprintf("%s/needs/%s/shifts", c.opts.BaseURL, needID)
}

// do issues one request and returns the body for 2xx responses
func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "amplify new request failed")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "amplify %s %s failed", method, url)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("amplify http response")

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeTransport, "amplify read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, perr.Newf(perr.ErrorCodeTransport, "amplify %s %s status %d body %s", method, url, resp.StatusCode, truncate(string(b), 512))
	}
	return b, nil
}

// CreateShifts posts one group's shift envelope to a need
func (c *Client) CreateShifts(ctx context.Context, needID string, envelope any) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "encode shifts for need %s", needID)
	}
	_, err = c.do(ctx, http.MethodPost, c.ShiftsURL(needID), body)
	return err
}

// needResponse is the slice of the GET /needs/{id} payload we care about
type needResponse struct {
	Data struct {
		NeedTitle string `json:"need_title"`
	} `json:"data"`
}

// NeedTitle looks up a need's display title, defaulting to "Unknown" when the
// response carries none
func (c *Client) NeedTitle(ctx context.Context, needID string) (string, error) {
	b, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/needs/%s", c.opts.BaseURL, needID), nil)
	if err != nil {
		return "", err
	}
	var nr needResponse
	if err := json.Unmarshal(b, &nr); err != nil || nr.Data.NeedTitle == "" {
		return "Unknown", nil
	}
	return nr.Data.NeedTitle, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
