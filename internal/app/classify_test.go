package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chriscorrea/lekh/internal/app"
	"github.com/chriscorrea/lekh/internal/detect"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestClassifySources(t *testing.T) {
	marathiFile := writeTempFile(t, "marathi.txt", "मी आज घरी जातो आहे")
	englishFile := writeTempFile(t, "english.txt", "Just a plain English note about the weather.")
	mixedFile := writeTempFile(t, "mixed.txt", "मी आज office ला जातो")

	det := detect.NewDefault()

	results, err := app.ClassifySources(context.Background(),
		[]string{marathiFile, englishFile, mixedFile}, det, app.ClassifyOptions{})
	if err != nil {
		t.Fatalf("ClassifySources() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Result.Category != detect.PureMarathi {
		t.Errorf("marathi file classified as %v", results[0].Result.Category)
	}
	if results[0].Split != nil {
		t.Errorf("pure Marathi result should not include a split without the flag")
	}

	if results[1].Result.Category != detect.NonMarathi {
		t.Errorf("english file classified as %v", results[1].Result.Category)
	}

	if results[2].Result.Category != detect.MixedContent {
		t.Errorf("mixed file classified as %v", results[2].Result.Category)
	}
	// mixed content always carries its split
	if results[2].Split == nil {
		t.Fatal("mixed result should include a split")
	}
	if results[2].Split.MarathiText == "" || results[2].Split.EnglishText == "" {
		t.Errorf("mixed split incomplete: %+v", results[2].Split)
	}
}

func TestClassifySourcesWithSplitFlag(t *testing.T) {
	marathiFile := writeTempFile(t, "marathi.txt", "मी आज घरी जातो")

	results, err := app.ClassifySources(context.Background(),
		[]string{marathiFile}, detect.NewDefault(), app.ClassifyOptions{WithSplit: true})
	if err != nil {
		t.Fatalf("ClassifySources() failed: %v", err)
	}
	if len(results) != 1 || results[0].Split == nil {
		t.Fatal("split flag should attach a split to every result")
	}
	if results[0].Split.MarathiText == "" {
		t.Errorf("expected Marathi text in split, got %+v", results[0].Split)
	}
}

func TestClassifySourcesURLWithSelector(t *testing.T) {
	page := `<html><body>
<nav>home | about | contact</nav>
<div class="post"><p>मी आज घरी जातो आहे. आज छान दिवस आहे.</p></div>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	results, err := app.ClassifySources(context.Background(),
		[]string{srv.URL}, detect.NewDefault(), app.ClassifyOptions{Selector: ".post"})
	if err != nil {
		t.Fatalf("ClassifySources() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Result.Category != detect.PureMarathi {
		t.Errorf("selector-scoped page classified as %v, want PureMarathi", results[0].Result.Category)
	}
}

func TestClassifySourcesSkipsFailures(t *testing.T) {
	good := writeTempFile(t, "good.txt", "मी आज घरी जातो")
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")

	results, err := app.ClassifySources(context.Background(),
		[]string{missing, good}, detect.NewDefault(), app.ClassifyOptions{})
	if err != nil {
		t.Fatalf("one bad source should not fail the batch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Source != good {
		t.Errorf("unexpected source %q", results[0].Source)
	}
}

func TestClassifySourcesAllFail(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")

	_, err := app.ClassifySources(context.Background(),
		[]string{missing}, detect.NewDefault(), app.ClassifyOptions{})
	if err == nil {
		t.Error("expected an error when no source can be classified")
	}
}
