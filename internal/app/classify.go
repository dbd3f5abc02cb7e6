package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/chriscorrea/lekh/internal/detect"
	"github.com/chriscorrea/lekh/internal/extract"
	"github.com/chriscorrea/lekh/internal/fetch"
	"github.com/chriscorrea/lekh/internal/format"
)

// SourceResult is the classification outcome for one ad-hoc source.
type SourceResult struct {
	Source string              `json:"source"`
	Result detect.Result       `json:"result"`
	Split  *detect.SplitResult `json:"split,omitempty"`
}

// ClassifyOptions adjusts how ad-hoc sources are classified.
type ClassifyOptions struct {
	// WithSplit attaches a language split to every result, not just mixed.
	WithSplit bool
	// Selector scopes URL extraction to a CSS selector instead of
	// readability's main-content detection. Ignored for files and stdin.
	Selector string
}

// ClassifySources classifies ad-hoc text sources (files, URLs, or "-" for
// stdin). URL sources are reduced to article text first so the detector sees
// prose rather than page chrome. Sources that fail to fetch are reported and
// skipped; an error is returned only when nothing could be classified.
func ClassifySources(ctx context.Context, sources []string, det *detect.Detector, opts ClassifyOptions) ([]SourceResult, error) {
	var results []SourceResult
	var failures []string

	for _, source := range sources {
		text, err := sourceText(ctx, source, opts.Selector)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", source, err))
			continue
		}

		res := SourceResult{
			Source: source,
			Result: det.Classify(text),
		}
		if opts.WithSplit || res.Result.Category == detect.MixedContent {
			split := det.Split(text)
			res.Split = &split
		}
		results = append(results, res)
	}

	if len(results) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("no sources could be classified: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// sourceText fetches one source and reduces it to plain text.
func sourceText(ctx context.Context, source, selector string) (string, error) {
	reader, err := fetch.GetContent(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content: %w", err)
	}
	defer reader.Close()

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		var markdown string
		if selector != "" {
			markdown, err = extract.SelectText(reader, selector)
		} else {
			baseURL, _ := url.Parse(source) // nil base is acceptable on parse failure
			markdown, err = extract.Text(reader, baseURL)
		}
		if err != nil {
			return "", fmt.Errorf("failed to extract content: %w", err)
		}
		// strip the markdown markers so script counting sees prose only
		return format.CleanRedditFormatting(markdown), nil
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(raw), nil
}
