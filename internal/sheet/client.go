package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/record"
	"github.com/gogoref/gogoref/internal/whatsapp"
)

const (
	DefaultBaseURL = "https://docs.google.com/spreadsheets/d/"
	UserAgent      = "gogoref/1.0"
	Timeout        = 30 * time.Second

	maxBodyBytes = 8 << 20
)

// FetchError reports a failed export download: a transport error, a non-2xx
// status, or an HTML page served in place of the CSV.
type FetchError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	case e.StatusCode != 0 && e.Reason != "":
		return fmt.Sprintf("fetching %s: status %d: %s", e.URL, e.StatusCode, e.Reason)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetching %s: %s", e.URL, e.Reason)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client reads tabs of one published spreadsheet
type Client struct {
	client  *http.Client
	baseURL string
	sheetID string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a Client for the spreadsheet sheetID served under baseURL.
// An empty baseURL selects DefaultBaseURL.
func New(baseURL, sheetID string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL: baseURL,
		sheetID: sheetID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExportURL returns the CSV export URL of one tab:
// <base>/<sheetId>/gviz/tq?tqx=out:csv&sheet=<sheetName>
func (c *Client) ExportURL(sheetName string) string {
	return fmt.Sprintf("%s/%s/gviz/tq?tqx=out:csv&sheet=%s",
		strings.TrimRight(c.baseURL, "/"), c.sheetID, whatsapp.EncodeComponent(sheetName))
}

// FetchRows downloads sourceURL and splits the body into rows on '\n'.
// Any failure is returned as a *FetchError.
func (c *Client) FetchRows(ctx context.Context, sourceURL string) ([]string, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("sheet.fetch", time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &FetchError{URL: sourceURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: sourceURL, StatusCode: resp.StatusCode}
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return nil, &FetchError{
			URL:        sourceURL,
			StatusCode: resp.StatusCode,
			Reason:     describeHTML(body),
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: sourceURL, Err: fmt.Errorf("reading body: %w", err)}
	}

	return strings.Split(string(data), "\n"), nil
}

// describeHTML explains an HTML body served instead of CSV. Unpublished or
// private spreadsheets answer with a sign-in page rather than an error status.
func describeHTML(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "export returned an HTML page"
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return "export returned an HTML page"
	}
	return fmt.Sprintf("export returned an HTML page: %s", title)
}

// Games fetches and parses the games tab
func (c *Client) Games(ctx context.Context, sheetName string) ([]record.Game, error) {
	rows, err := c.FetchRows(ctx, c.ExportURL(sheetName))
	if err != nil {
		return nil, err
	}
	return ParseGames(rows), nil
}

// Schedule fetches and parses one timetable tab. Categories are returned as
// written in the sheet; carrying them forward is left to the caller.
func (c *Client) Schedule(ctx context.Context, sheetName string) ([]record.ScheduleEvent, error) {
	rows, err := c.FetchRows(ctx, c.ExportURL(sheetName))
	if err != nil {
		return nil, err
	}
	return ParseSchedule(rows), nil
}
