package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chriscorrea/bm25md"

	"github.com/chriscorrea/lekh/internal/chunk"
	"github.com/chriscorrea/lekh/internal/format"
	"github.com/chriscorrea/lekh/internal/store"
)

// exportChunkSize bounds the text windows scored during search ranking;
// long posts are scored by their best window rather than diluted whole.
const exportChunkSize = 700

// ExportConfig holds the export command configuration.
type ExportConfig struct {
	Query      string   // optional relevance query; empty exports in stored order
	Limit      int      // max entries to emit (0 = all)
	Categories []string // language categories to include; empty = pure + mixed
}

// RecordLister reads stored records; satisfied by *store.Client.
type RecordLister interface {
	List(ctx context.Context, categories []string, limit int) ([]store.Record, error)
}

// Export renders stored records as training-entry JSONL. With a query, the
// records are ranked by BM25 relevance (scored per text window, best window
// wins) before the limit is applied.
func Export(ctx context.Context, w io.Writer, cfg ExportConfig, lister RecordLister, proc *format.Processor) (int, error) {
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = []string{"pure_marathi", "mixed_content"}
	}

	// with a relevance query the limit applies after ranking, so fetch all
	fetchLimit := cfg.Limit
	if cfg.Query != "" {
		fetchLimit = 0
	}

	records, err := lister.List(ctx, categories, fetchLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	if strings.TrimSpace(cfg.Query) != "" {
		records = rankRecords(records, cfg.Query)
	}
	if cfg.Limit > 0 && len(records) > cfg.Limit {
		records = records[:cfg.Limit]
	}

	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(proc.TrainingEntry(rec)); err != nil {
			return 0, fmt.Errorf("failed to encode entry %s: %w", rec.RedditID, err)
		}
	}
	return len(records), nil
}

// rankRecords sorts records by BM25md relevance to the query, best first.
// Each record contributes one corpus document per text window; a record's
// score is its best window's score.
func rankRecords(records []store.Record, query string) []store.Record {
	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()

	// docOwner maps corpus document ids back to record indices
	var docOwner []int
	for i, rec := range records {
		text := format.CleanRedditFormatting(strings.TrimSpace(rec.Title + " " + rec.Body))
		for _, window := range chunk.SplitText(text, exportChunkSize) {
			doc := bm25md.Document{
				ID:       len(docOwner),
				Fields:   parser.ParseDocument(window),
				Original: window,
			}
			corpus.AddDocument(doc)
			docOwner = append(docOwner, i)
		}
	}

	best := make([]float64, len(records))
	for docID, recIdx := range docOwner {
		if score := corpus.Score(query, docID); score > best[recIdx] {
			best[recIdx] = score
		}
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return best[order[a]] > best[order[b]]
	})

	ranked := make([]store.Record, len(records))
	for pos, idx := range order {
		ranked[pos] = records[idx]
	}
	return ranked
}
