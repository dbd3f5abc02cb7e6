// Package fetch reads raw text for ad-hoc classification from local files,
// URLs, and standard input. It also owns construction of the staged-timeout
// HTTP client shared by every outbound client in the tool.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size caps. Classification inputs are prose; anything past these limits is
// not text worth classifying and would only strain memory.
const (
	MaxFileSizeBytes = 50 * 1024 * 1024  // local files and stdin
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // HTTP bodies, which may lack Content-Length
)

// RequestTimeout is the overall deadline for one HTTP fetch.
const RequestTimeout = 30 * time.Second

// NewHTTPClient builds an HTTP client whose connection phases fail fast
// relative to the overall deadline: dialing and the TLS handshake each get a
// sixth of the budget, response headers half. The Reddit and Supabase clients
// use the same construction.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: timeout / 6,
			}).DialContext,
			TLSHandshakeTimeout:   timeout / 6,
			ResponseHeaderTimeout: timeout / 2,
		},
	}
}

var httpClient = NewHTTPClient(RequestTimeout)

// GetContent opens a source for reading. "-" is standard input, anything
// starting with http:// or https:// is fetched over HTTP, and everything
// else is treated as a local file path. The returned reader enforces the
// package size caps; exceeding one surfaces as a read error.
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return capReader(io.NopCloser(os.Stdin), MaxFileSizeBytes, "stdin"), nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return openURL(ctx, source)
	default:
		return openFile(source)
	}
}

// openURL fetches a URL with the shared HTTP client, rejecting oversized
// responses up front when the server declares a Content-Length.
func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "lekh/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d %s", url, resp.StatusCode, resp.Status)
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, err := strconv.ParseInt(cl, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d byte limit)", size, MaxHTTPSizeBytes)
		}
	}

	return capReader(resp.Body, MaxHTTPSizeBytes, url), nil
}

// openFile opens a local file, rejecting missing and oversized files with
// readable errors before any bytes move.
func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d byte limit)",
			path, info.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return file, nil
}

// cappedReadCloser errors out (rather than silently truncating) once a
// source produces more than its byte limit.
type cappedReadCloser struct {
	io.Closer
	limited *io.LimitedReader
	max     int64
	source  string
}

// capReader wraps rc so reads fail once max bytes have been consumed. The
// inner limit is max+1 so a source of exactly max bytes still reads cleanly.
func capReader(rc io.ReadCloser, max int64, source string) io.ReadCloser {
	return &cappedReadCloser{
		Closer:  rc,
		limited: &io.LimitedReader{R: rc, N: max + 1},
		max:     max,
		source:  source,
	}
}

func (c *cappedReadCloser) Read(p []byte) (int, error) {
	n, err := c.limited.Read(p)
	if c.limited.N <= 0 {
		return n, fmt.Errorf("content from %q exceeds the %d byte limit", c.source, c.max)
	}
	return n, err
}
