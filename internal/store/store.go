// Package store persists classified content records to Supabase through its
// PostgREST data API. The table schema is assumed provisioned; the store
// owns no migrations.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chriscorrea/lekh/internal/fetch"
)

const (
	table = "reddit_content"

	requestTimeout   = 30 * time.Second
	maxResponseBytes = 10 * 1024 * 1024
)

// Record is one classified content item as stored.
type Record struct {
	RedditID         string    `json:"reddit_id"`
	ContentType      string    `json:"content_type"`
	Subreddit        string    `json:"subreddit"`
	Title            string    `json:"title,omitempty"`
	Body             string    `json:"body"`
	LanguageCategory string    `json:"language_category"`
	Confidence       float64   `json:"marathi_confidence"`
	MarathiText      string    `json:"marathi_text,omitempty"`
	EnglishText      string    `json:"english_text,omitempty"`
	Score            int       `json:"score"`
	RedditCreatedUTC time.Time `json:"reddit_created_utc"`
}

// Client is a Supabase PostgREST client scoped to the content table.
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string // project URL, e.g. https://xyz.supabase.co
	apiKey     string
}

// NewClient creates a store client for the given Supabase project.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: fetch.NewHTTPClient(requestTimeout),
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Insert stores a single record. Duplicate reddit_ids are ignored rather
// than treated as failures.
func (c *Client) Insert(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	return c.post(ctx, []Record{rec})
}

// BulkInsert stores records in batches, falling back to single inserts when
// a batch fails so one bad record cannot sink its whole batch. Returns the
// number of records stored and the number that failed.
func (c *Client) BulkInsert(ctx context.Context, records []Record, batchSize int) (stored, failed int) {
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		// drop records missing required fields before sending
		batch := make([]Record, 0, end-start)
		for _, rec := range records[start:end] {
			if err := validate(rec); err != nil {
				slog.Debug("skipping invalid record", "error", err)
				failed++
				continue
			}
			batch = append(batch, rec)
		}
		if len(batch) == 0 {
			continue
		}

		err := c.post(ctx, batch)
		if err == nil {
			stored += len(batch)
			slog.Debug("batch insert succeeded", "count", len(batch))
			continue
		}
		slog.Debug("batch insert failed, retrying individually", "count", len(batch), "error", err)

		for _, rec := range batch {
			if err := c.post(ctx, []Record{rec}); err != nil {
				slog.Debug("record insert failed", "redditID", rec.RedditID, "error", err)
				failed++
			} else {
				stored++
			}
		}
	}

	return stored, failed
}

// List reads stored records filtered by language category, newest first.
// A limit of 0 returns everything the server allows per request.
func (c *Client) List(ctx context.Context, categories []string, limit int) ([]Record, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "reddit_created_utc.desc")
	if len(categories) > 0 {
		q.Set("language_category", "in.("+strings.Join(categories, ",")+")")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list query returned status %d", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	return records, nil
}

// Exists reports whether a record with the given reddit id is already stored.
func (c *Client) Exists(ctx context.Context, redditID string) (bool, error) {
	q := url.Values{}
	q.Set("reddit_id", "eq."+redditID)
	q.Set("select", "reddit_id")
	q.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create exists request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("exists query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("exists query returned status %d", resp.StatusCode)
	}

	var rows []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&rows); err != nil {
		return false, fmt.Errorf("failed to decode exists response: %w", err)
	}
	return len(rows) > 0, nil
}

// CategoryCounts returns the stored record count per language category.
func (c *Client) CategoryCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)

	for _, category := range []string{"pure_marathi", "mixed_content", "non_marathi"} {
		n, err := c.countWhere(ctx, "language_category", "eq."+category)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", category, err)
		}
		counts[category] = n
	}
	return counts, nil
}

// countWhere issues a HEAD-style count query against the table.
func (c *Client) countWhere(ctx context.Context, column, filter string) (int, error) {
	q := url.Values{}
	q.Set("select", "reddit_id")
	if column != "" {
		q.Set(column, filter)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create count request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("count query returned status %d", resp.StatusCode)
	}

	// Content-Range: 0-24/3573
	contentRange := resp.Header.Get("Content-Range")
	if idx := strings.LastIndex(contentRange, "/"); idx >= 0 {
		if n, err := strconv.Atoi(contentRange[idx+1:]); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("count query returned unparseable Content-Range %q", contentRange)
}

// post inserts one batch of records, asking PostgREST to silently skip
// duplicate reddit_ids.
func (c *Client) post(ctx context.Context, records []Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create insert request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=ignore-duplicates")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("insert request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("insert returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// setHeaders applies the Supabase auth headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// validate checks the fields the table schema marks NOT NULL.
func validate(rec Record) error {
	switch {
	case rec.RedditID == "":
		return fmt.Errorf("record missing reddit_id")
	case rec.ContentType == "":
		return fmt.Errorf("record %s missing content_type", rec.RedditID)
	case rec.Subreddit == "":
		return fmt.Errorf("record %s missing subreddit", rec.RedditID)
	case rec.LanguageCategory == "":
		return fmt.Errorf("record %s missing language_category", rec.RedditID)
	}
	return nil
}
