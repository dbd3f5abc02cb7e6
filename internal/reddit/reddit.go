// Package reddit provides a minimal Reddit data-API client for collecting
// posts and comments from target subreddits. It authenticates with the
// client-credentials OAuth grant and reads the JSON listing endpoints.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chriscorrea/lekh/internal/fetch"
)

// Response size limit; listing pages are small but comment trees can grow.
const maxResponseBytes = 10 * 1024 * 1024 // 10MB

// Overall deadline for one API request; the shared client construction
// stages the connection-phase timeouts inside it.
const requestTimeout = 30 * time.Second

// listingPageSize is the per-request item count for listing endpoints.
const listingPageSize = 100

// Item is one unit of scraped content: a post (with title and body) or a
// comment (body only).
type Item struct {
	ID          string    // Reddit id without the type prefix
	Type        string    // "post" or "comment"
	Subreddit   string
	Title       string
	Body        string
	CreatedUTC  time.Time
	Score       int
	NumComments int
	Permalink   string
	ParentID    string // post id for comments, empty for posts
}

// Client talks to the Reddit data API. It is safe for concurrent use; the
// OAuth token is refreshed lazily under a mutex.
type Client struct {
	httpClient *http.Client
	userAgent  string
	clientID   string
	secret     string

	// overridable in tests
	authBase string
	apiBase  string
	pace     time.Duration

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Reddit client with the given script-app credentials.
func NewClient(clientID, secret, userAgent string) *Client {
	return &Client{
		httpClient: fetch.NewHTTPClient(requestTimeout),
		userAgent:  userAgent,
		clientID:   clientID,
		secret:     secret,
		authBase:   "https://www.reddit.com",
		apiBase:    "https://oauth.reddit.com",
		pace:       500 * time.Millisecond,
	}
}

// Posts collects up to limit posts from a subreddit, merging the hot, new,
// and top listings (as the listings overlap heavily, duplicates are dropped
// by id). Posts with no text content are skipped.
func (c *Client) Posts(ctx context.Context, subreddit string, limit int) ([]Item, error) {
	if limit <= 0 {
		return nil, nil
	}

	sources := []string{"hot", "new", "top"}
	perSource := limit / len(sources)
	if perSource == 0 {
		perSource = limit
	}

	seen := make(map[string]struct{})
	var items []Item

	for _, listing := range sources {
		collected, err := c.listingPosts(ctx, subreddit, listing, perSource, seen)
		if err != nil {
			return items, fmt.Errorf("listing %s of r/%s: %w", listing, subreddit, err)
		}
		items = append(items, collected...)
		if len(items) >= limit {
			items = items[:limit]
			break
		}
	}

	slog.Debug("collected subreddit posts", "subreddit", subreddit, "count", len(items))
	return items, nil
}

// listingPosts pages through one listing endpoint until count items are
// collected or the listing is exhausted.
func (c *Client) listingPosts(ctx context.Context, subreddit, listing string, count int, seen map[string]struct{}) ([]Item, error) {
	var items []Item
	after := ""

	for len(items) < count {
		page := listingPageSize
		if remaining := count - len(items); remaining < page {
			page = remaining
		}

		q := url.Values{}
		q.Set("limit", fmt.Sprintf("%d", page))
		q.Set("raw_json", "1")
		if after != "" {
			q.Set("after", after)
		}
		if listing == "top" {
			q.Set("t", "month")
		}

		endpoint := fmt.Sprintf("%s/r/%s/%s?%s", c.apiBase, url.PathEscape(subreddit), listing, q.Encode())

		var lst listingResponse
		if err := c.getJSON(ctx, endpoint, &lst); err != nil {
			return items, err
		}

		if len(lst.Data.Children) == 0 {
			break
		}

		for _, child := range lst.Data.Children {
			if child.Kind != "t3" {
				continue
			}
			if _, dup := seen[child.Data.ID]; dup {
				continue
			}
			seen[child.Data.ID] = struct{}{}

			// skip link-only posts with no text at all
			if child.Data.Title == "" && child.Data.Selftext == "" {
				continue
			}

			items = append(items, Item{
				ID:          child.Data.ID,
				Type:        "post",
				Subreddit:   subreddit,
				Title:       child.Data.Title,
				Body:        child.Data.Selftext,
				CreatedUTC:  time.Unix(int64(child.Data.CreatedUTC), 0).UTC(),
				Score:       child.Data.Score,
				NumComments: child.Data.NumComments,
				Permalink:   child.Data.Permalink,
			})
			if len(items) >= count {
				break
			}
		}

		if lst.Data.After == "" {
			break
		}
		after = lst.Data.After
	}

	return items, nil
}

// Comments collects up to max comments from a post's comment tree,
// depth-first, skipping deleted and removed bodies.
func (c *Client) Comments(ctx context.Context, postID string, max int) ([]Item, error) {
	if max <= 0 {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/comments/%s?raw_json=1&limit=%d", c.apiBase, url.PathEscape(postID), listingPageSize)

	// the comments endpoint returns a two-element array: the post listing
	// and the comment tree
	var pair []listingResponse
	if err := c.getJSON(ctx, endpoint, &pair); err != nil {
		return nil, fmt.Errorf("comments of %s: %w", postID, err)
	}
	if len(pair) < 2 {
		return nil, nil
	}

	var items []Item
	walkComments(pair[1].Data.Children, postID, max, &items)

	slog.Debug("collected post comments", "post", postID, "count", len(items))
	return items, nil
}

// walkComments traverses a comment tree depth-first, appending usable
// comments until max is reached.
func walkComments(children []child, postID string, max int, items *[]Item) {
	for _, ch := range children {
		if len(*items) >= max {
			return
		}
		if ch.Kind != "t1" {
			continue
		}
		body := ch.Data.Body
		if body != "" && body != "[deleted]" && body != "[removed]" {
			*items = append(*items, Item{
				ID:         ch.Data.ID,
				Type:       "comment",
				Subreddit:  ch.Data.Subreddit,
				Body:       body,
				CreatedUTC: time.Unix(int64(ch.Data.CreatedUTC), 0).UTC(),
				Score:      ch.Data.Score,
				Permalink:  ch.Data.Permalink,
				ParentID:   postID,
			})
		}
		if len(ch.Data.Replies.Data.Children) > 0 {
			walkComments(ch.Data.Replies.Data.Children, postID, max, items)
		}
	}
}

// getJSON performs an authenticated GET and decodes the JSON response,
// pacing requests to stay inside Reddit's rate limits.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	if c.pace > 0 {
		select {
		case <-time.After(c.pace):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %q: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %q: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("reddit API returned status %d for %q", resp.StatusCode, endpoint)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %q: %w", endpoint, err)
	}
	return nil
}

// token returns a valid access token, requesting a new one when the cached
// token is missing or near expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authBase+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	slog.Debug("reddit token refreshed", "expiresIn", tok.ExpiresIn)

	return c.accessToken, nil
}

// wire types for the listing JSON

type listingResponse struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []child `json:"children"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Body        string  `json:"body"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	Replies     replies `json:"replies"`
}

// replies is either "" (no replies) or a nested listing; the custom
// unmarshaler absorbs the empty-string case.
type replies struct {
	Data listingData
}

func (r *replies) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == `""` || string(b) == "null" {
		return nil
	}
	var lst listingResponse
	if err := json.Unmarshal(b, &lst); err != nil {
		return err
	}
	r.Data = lst.Data
	return nil
}
