package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/lekh/internal/app"
	"github.com/chriscorrea/lekh/internal/config"
	"github.com/chriscorrea/lekh/internal/detect"
	"github.com/chriscorrea/lekh/internal/format"
	"github.com/chriscorrea/lekh/internal/reddit"
	"github.com/chriscorrea/lekh/internal/store"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// signalContext returns a context cancelled on interrupt for graceful shutdown
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var rootCmd = &cobra.Command{
	Use:   "lekh",
	Short: "Collect and classify Marathi text content",
	Long: `Lekh collects text content from Reddit, classifies it as pure Marathi,
mixed Marathi-English, or non-Marathi, and stores the results for building
language-model training corpora.

Examples:
  lekh scrape --subreddits marathi,mumbai
  lekh classify file.txt https://example.com
  lekh export --search "सण" --limit 500 > corpus.jsonl
  lekh stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect subreddit content, classify it, and store the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cfg.RequireReddit(); err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if !dryRun {
			if err := cfg.RequireSupabase(); err != nil {
				return err
			}
		}

		// flags override environment configuration
		if subs, _ := cmd.Flags().GetStringSlice("subreddits"); len(subs) > 0 {
			cfg.TargetSubreddits = subs
		}
		if n, _ := cmd.Flags().GetInt("max-posts"); n > 0 {
			cfg.MaxPostsPerSubreddit = n
		}
		if cmd.Flags().Changed("comments") {
			cfg.IncludeComments, _ = cmd.Flags().GetBool("comments")
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signalContext()
		defer stop()

		det := detect.New(detect.DefaultReferenceData(), cfg.Detector)
		src := reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)

		var st app.Store
		if !dryRun {
			st = store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		}

		stats, err := app.Run(ctx, app.Config{
			Subreddits:         cfg.TargetSubreddits,
			MaxPosts:           cfg.MaxPostsPerSubreddit,
			IncludeComments:    cfg.IncludeComments,
			MaxCommentsPerPost: cfg.MaxCommentsPerPost,
			BatchSize:          cfg.BatchSize,
			Workers:            cfg.Workers,
			DryRun:             dryRun,
			Quiet:              quiet,
		}, det, src, st)
		if err != nil {
			return fmt.Errorf("scrape failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Processed %d items: %d pure Marathi, %d mixed, %d non-Marathi (%d skipped)\n",
			stats.Processed, stats.PureMarathi, stats.Mixed, stats.NonMarathi, stats.Skipped)
		if !dryRun {
			fmt.Fprintf(os.Stderr, "Stored %d records (%d failed)\n", stats.Stored, stats.Failed)
		}
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify [sources...]",
	Short: "Classify ad-hoc text from files, URLs, or stdin",
	Long: `Classify reads text from the given sources and reports the language
category, confidence, and signal breakdown for each as JSON. URLs are run
through readability extraction first. With no sources, reads stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		sources := args
		if len(sources) == 0 {
			sources = []string{"-"}
		}
		withSplit, _ := cmd.Flags().GetBool("split")
		selector, _ := cmd.Flags().GetString("selector")
		jsonOut, _ := cmd.Flags().GetBool("json")

		ctx, stop := signalContext()
		defer stop()

		det := detect.New(detect.DefaultReferenceData(), cfg.Detector)
		results, err := app.ClassifySources(ctx, sources, det, app.ClassifyOptions{
			WithSplit: withSplit,
			Selector:  selector,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		for _, r := range results {
			fmt.Printf("%s: %s (confidence %.2f)\n", r.Source, r.Result.Category, r.Result.Confidence)
			fmt.Printf("  script ratio %.2f, lexical %.2f, english %.2f, diagnostic %v\n",
				r.Result.ScriptRatio, r.Result.LexicalScore, r.Result.EnglishScore, r.Result.DiagnosticHit)
			if r.Split != nil {
				if r.Split.MarathiText != "" {
					fmt.Printf("  marathi: %s\n", r.Split.MarathiText)
				}
				if r.Split.EnglishText != "" {
					fmt.Printf("  english: %s\n", r.Split.EnglishText)
				}
			}
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records as training-format JSONL",
	Long: `Export reads stored Marathi and mixed-content records and writes one
training entry per line to stdout. With --search, records are ranked by
relevance to the query before the limit is applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cfg.RequireSupabase(); err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		categoriesRaw, _ := cmd.Flags().GetString("categories")

		var categories []string
		for _, c := range strings.Split(categoriesRaw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}

		ctx, stop := signalContext()
		defer stop()

		proc, err := format.NewProcessor()
		if err != nil {
			return fmt.Errorf("failed to initialize processor: %w", err)
		}

		st := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		n, err := app.Export(ctx, os.Stdout, app.ExportConfig{
			Query:      query,
			Limit:      limit,
			Categories: categories,
		}, st, proc)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Exported %d entries\n", n)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored record counts per language category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cfg.RequireSupabase(); err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		st := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		counts, err := st.CategoryCounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch counts: %w", err)
		}

		total := 0
		for _, category := range []string{"pure_marathi", "mixed_content", "non_marathi"} {
			fmt.Printf("%-14s %d\n", category, counts[category])
			total += counts[category]
		}
		fmt.Printf("%-14s %d\n", "total", total)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")

	scrapeCmd.Flags().StringSlice("subreddits", nil, "Subreddits to collect (default from TARGET_SUBREDDITS)")
	scrapeCmd.Flags().Int("max-posts", 0, "Maximum posts per subreddit")
	scrapeCmd.Flags().Bool("comments", true, "Also collect and classify post comments")
	scrapeCmd.Flags().Bool("dry-run", false, "Classify and report without storing")
	scrapeCmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")

	classifyCmd.Flags().Bool("split", false, "Also separate Marathi and English text for every source")
	classifyCmd.Flags().String("selector", "", "CSS selector to scope URL extraction (default: readability)")
	classifyCmd.Flags().Bool("json", false, "Output results as JSON")
	classifyCmd.Flags().Bool("text", false, "Output results as plain text (default)")
	classifyCmd.MarkFlagsMutuallyExclusive("json", "text")

	exportCmd.Flags().String("search", "", "Rank records by relevance to keyword(s) before exporting")
	exportCmd.Flags().IntP("limit", "l", 0, "Maximum entries to export (0 = all)")
	exportCmd.Flags().String("categories", "", "Language categories to include, comma separated (default: pure_marathi,mixed_content)")

	rootCmd.AddCommand(scrapeCmd, classifyCmd, exportCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
