package app_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chriscorrea/lekh/internal/app"
	"github.com/chriscorrea/lekh/internal/format"
	"github.com/chriscorrea/lekh/internal/store"
)

// fakeLister serves canned records and captures the query it received.
type fakeLister struct {
	records    []store.Record
	categories []string
	limit      int
	err        error
}

func (f *fakeLister) List(ctx context.Context, categories []string, limit int) ([]store.Record, error) {
	f.categories = categories
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func exportRecord(id, title, body string) store.Record {
	return store.Record{
		RedditID:         id,
		ContentType:      "post",
		Subreddit:        "marathi",
		Title:            title,
		Body:             body,
		LanguageCategory: "pure_marathi",
		Confidence:       0.9,
		MarathiText:      body,
		RedditCreatedUTC: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestProcessor(t *testing.T) *format.Processor {
	t.Helper()
	proc, err := format.NewProcessor()
	if err != nil {
		t.Fatalf("NewProcessor() failed: %v", err)
	}
	return proc
}

func TestExport(t *testing.T) {
	lister := &fakeLister{records: []store.Record{
		exportRecord("a", "गणपती", "गणपती उत्सव पुण्यात साजरा होतो"),
		exportRecord("b", "प्रवास", "मी आज मुंबईला जातो"),
	}}

	var buf bytes.Buffer
	n, err := app.Export(context.Background(), &buf, app.ExportConfig{}, lister, newTestProcessor(t))
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d entries, want 2", n)
	}

	// default categories exclude non-Marathi records
	if len(lister.categories) != 2 ||
		lister.categories[0] != "pure_marathi" || lister.categories[1] != "mixed_content" {
		t.Errorf("unexpected default categories: %v", lister.categories)
	}

	// one valid JSON entry per line
	scanner := bufio.NewScanner(&buf)
	var ids []string
	for scanner.Scan() {
		var entry format.Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSONL line: %v", err)
		}
		ids = append(ids, entry.ID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected exported ids: %v", ids)
	}
}

func TestExportLimit(t *testing.T) {
	lister := &fakeLister{records: []store.Record{
		exportRecord("a", "पहिली", "मी आज घरी जातो"),
		exportRecord("b", "दुसरी", "मी उद्या घरी येतो"),
		exportRecord("c", "तिसरी", "आज छान दिवस आहे"),
	}}

	var buf bytes.Buffer
	n, err := app.Export(context.Background(), &buf, app.ExportConfig{Limit: 2}, lister, newTestProcessor(t))
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d entries, want 2", n)
	}
	// without a query the limit is pushed down to the store
	if lister.limit != 2 {
		t.Errorf("lister limit = %d, want 2", lister.limit)
	}
}

func TestExportSearchRanking(t *testing.T) {
	lister := &fakeLister{records: []store.Record{
		exportRecord("trains", "Mumbai locals", "Mumbai local trains run late during monsoon season"),
		exportRecord("festival", "Ganpati", "The Ganpati festival is celebrated across Pune with modak offerings"),
	}}

	var buf bytes.Buffer
	n, err := app.Export(context.Background(), &buf, app.ExportConfig{
		Query: "Ganpati festival",
		Limit: 1,
	}, lister, newTestProcessor(t))
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Export() = %d entries, want 1", n)
	}

	// with a query everything is fetched and ranked before the limit applies
	if lister.limit != 0 {
		t.Errorf("lister limit = %d, want 0 when ranking", lister.limit)
	}

	var entry format.Entry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid JSONL output: %v", err)
	}
	if entry.ID != "festival" {
		t.Errorf("top-ranked entry = %q, want %q", entry.ID, "festival")
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := app.Export(context.Background(), &buf, app.ExportConfig{}, &fakeLister{}, newTestProcessor(t))
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Errorf("expected no output for an empty store, got %d entries %q", n, buf.String())
	}
}

func TestExportListError(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("connection refused")}

	var buf bytes.Buffer
	_, err := app.Export(context.Background(), &buf, app.ExportConfig{}, lister, newTestProcessor(t))
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected list error to propagate, got %v", err)
	}
}
