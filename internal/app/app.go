// Package app contains the core pipeline logic for the lekh CLI tool.
// It wires the Reddit source, the Marathi detector, the training-format
// processor, and the Supabase store together, keeping orchestration
// separate from CLI concerns.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/chriscorrea/lekh/internal/detect"
	"github.com/chriscorrea/lekh/internal/format"
	"github.com/chriscorrea/lekh/internal/reddit"
	"github.com/chriscorrea/lekh/internal/spinner"
	"github.com/chriscorrea/lekh/internal/store"
)

// Rune-length bounds for storable training content; items outside them are
// counted as skipped.
const (
	minTrainingChars = 10
	maxTrainingChars = 40000
)

// Config holds the scrape pipeline configuration.
type Config struct {
	Subreddits         []string
	MaxPosts           int // per subreddit
	IncludeComments    bool
	MaxCommentsPerPost int
	BatchSize          int  // records per bulk insert
	Workers            int  // concurrent classification workers
	DryRun             bool // classify and report without storing
	Quiet              bool
}

// Stats summarizes one pipeline run.
type Stats struct {
	Processed   int
	PureMarathi int
	Mixed       int
	NonMarathi  int
	Skipped     int // empty or unusable items
	Stored      int
	Failed      int
}

// counters is the concurrent-safe accumulator behind Stats.
type counters struct {
	processed, pure, mixed, non, skipped, stored, failed atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{
		Processed:   int(c.processed.Load()),
		PureMarathi: int(c.pure.Load()),
		Mixed:       int(c.mixed.Load()),
		NonMarathi:  int(c.non.Load()),
		Skipped:     int(c.skipped.Load()),
		Stored:      int(c.stored.Load()),
		Failed:      int(c.failed.Load()),
	}
}

// Source produces raw content items; satisfied by *reddit.Client.
type Source interface {
	Posts(ctx context.Context, subreddit string, limit int) ([]reddit.Item, error)
	Comments(ctx context.Context, postID string, max int) ([]reddit.Item, error)
}

// Store persists classified records; satisfied by *store.Client.
type Store interface {
	BulkInsert(ctx context.Context, records []store.Record, batchSize int) (stored, failed int)
}

// Run executes the scrape pipeline: collect items from each configured
// subreddit, classify them concurrently, and store the Marathi and mixed
// records in batches.
//
// Classification is embarrassingly parallel — the detector is a pure
// function over an immutable reference snapshot — so items fan out across
// Workers goroutines with no coordination beyond the channels.
func Run(ctx context.Context, cfg Config, det *detect.Detector, src Source, st Store) (Stats, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	var sp *spinner.Spinner
	if !cfg.Quiet {
		sp = spinner.New(ctx, os.Stderr, "Collecting content...")
		sp.Start()
		defer sp.Stop()
	}

	items := make(chan reddit.Item, cfg.Workers*2)
	records := make(chan store.Record, cfg.Workers*2)

	var tally counters
	g, gctx := errgroup.WithContext(ctx)

	// producer: walk subreddits and their comment trees
	g.Go(func() error {
		defer close(items)
		return collect(gctx, cfg, src, items, sp)
	})

	// workers: classify and build records
	workers, wctx := errgroup.WithContext(gctx)
	for i := 0; i < cfg.Workers; i++ {
		workers.Go(func() error {
			return classifyWorker(wctx, det, items, records, &tally, sp)
		})
	}
	g.Go(func() error {
		defer close(records)
		return workers.Wait()
	})

	// consumer: batch and store
	g.Go(func() error {
		batch := make([]store.Record, 0, cfg.BatchSize)
		flush := func() {
			if len(batch) == 0 {
				return
			}
			if cfg.DryRun {
				slog.Info("dry run, skipping insert", "count", len(batch))
				batch = batch[:0]
				return
			}
			stored, failed := st.BulkInsert(gctx, batch, cfg.BatchSize)
			tally.stored.Add(int64(stored))
			tally.failed.Add(int64(failed))
			batch = batch[:0]
		}

		for rec := range records {
			batch = append(batch, rec)
			if len(batch) >= cfg.BatchSize {
				flush()
			}
		}
		flush()
		return nil
	})

	err := g.Wait()
	stats := tally.stats()
	if err != nil {
		return stats, err
	}

	slog.Info("scrape complete",
		"processed", stats.Processed,
		"pureMarathi", stats.PureMarathi,
		"mixed", stats.Mixed,
		"nonMarathi", stats.NonMarathi,
		"skipped", stats.Skipped,
		"stored", stats.Stored,
		"failed", stats.Failed)

	return stats, nil
}

// collect streams posts (and optionally their comments) into the items
// channel.
func collect(ctx context.Context, cfg Config, src Source, items chan<- reddit.Item, sp *spinner.Spinner) error {
	for _, subreddit := range cfg.Subreddits {
		if sp != nil {
			sp.UpdateMessage(fmt.Sprintf("Collecting r/%s...", subreddit))
		}

		posts, err := src.Posts(ctx, subreddit, cfg.MaxPosts)
		if err != nil {
			// a failing subreddit should not sink the whole run
			slog.Warn("subreddit collection failed", "subreddit", subreddit, "error", err)
			continue
		}

		for _, post := range posts {
			select {
			case items <- post:
			case <-ctx.Done():
				return ctx.Err()
			}

			if !cfg.IncludeComments || post.NumComments == 0 {
				continue
			}
			comments, err := src.Comments(ctx, post.ID, cfg.MaxCommentsPerPost)
			if err != nil {
				slog.Warn("comment collection failed", "post", post.ID, "error", err)
				continue
			}
			for _, comment := range comments {
				select {
				case items <- comment:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

// classifyWorker drains items, classifies each, and emits records for
// content worth storing. Non-Marathi items are counted but not stored.
func classifyWorker(ctx context.Context, det *detect.Detector, items <-chan reddit.Item, records chan<- store.Record, tally *counters, sp *spinner.Spinner) error {
	for item := range items {
		text := strings.TrimSpace(item.Title + " " + item.Body)
		if text == "" {
			tally.skipped.Add(1)
			continue
		}

		result := det.Classify(text)
		tally.processed.Add(1)
		if sp != nil {
			sp.Advance(1)
		}

		rec := store.Record{
			RedditID:         item.ID,
			ContentType:      item.Type,
			Subreddit:        item.Subreddit,
			Title:            item.Title,
			Body:             item.Body,
			LanguageCategory: result.Category.String(),
			Confidence:       result.Confidence,
			Score:            item.Score,
			RedditCreatedUTC: item.CreatedUTC,
		}

		switch result.Category {
		case detect.PureMarathi:
			tally.pure.Add(1)
			rec.MarathiText = text
		case detect.MixedContent:
			tally.mixed.Add(1)
			split := det.Split(text)
			rec.MarathiText = split.MarathiText
			rec.EnglishText = split.EnglishText
		default:
			tally.non.Add(1)
			continue
		}

		if ok, reason := format.ValidateForTraining(text, minTrainingChars, maxTrainingChars); !ok {
			slog.Debug("skipping unusable content", "redditID", item.ID, "reason", reason)
			tally.skipped.Add(1)
			continue
		}

		select {
		case records <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
