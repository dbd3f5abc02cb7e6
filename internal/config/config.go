// Package config loads runtime configuration from environment variables,
// with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chriscorrea/lekh/internal/detect"
)

// Cfg holds all runtime configuration loaded from environment variables.
type Cfg struct {
	// Reddit API credentials (script-type app, client-credentials grant)
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string // e.g. lekh/0.1 by u_yourname

	// Supabase project endpoint and service key
	SupabaseURL string // e.g. https://xyzcompany.supabase.co
	SupabaseKey string

	// Scraping
	TargetSubreddits     []string // TARGET_SUBREDDITS, comma separated
	BatchSize            int      // records per bulk insert
	MaxPostsPerSubreddit int
	MaxCommentsPerPost   int
	IncludeComments      bool
	Workers              int // concurrent classification workers

	// Detector tuning overrides; zero values mean "use defaults"
	Detector detect.Config
}

// Load reads .env (if present) then environment variables and returns Cfg.
// Reddit and Supabase credentials are only validated by the commands that
// need them, so `lekh classify` works without any environment at all.
func Load() (*Cfg, error) {
	// best-effort: load .env from current directory
	_ = godotenv.Load()

	cfg := &Cfg{
		RedditClientID:     strings.TrimSpace(os.Getenv("REDDIT_CLIENT_ID")),
		RedditClientSecret: strings.TrimSpace(os.Getenv("REDDIT_CLIENT_SECRET")),
		RedditUserAgent:    strings.TrimSpace(os.Getenv("REDDIT_USER_AGENT")),
		SupabaseURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		SupabaseKey:        strings.TrimSpace(os.Getenv("SUPABASE_KEY")),
	}

	if cfg.RedditUserAgent == "" {
		cfg.RedditUserAgent = "lekh/0.1"
	}

	cfg.TargetSubreddits = splitList(os.Getenv("TARGET_SUBREDDITS"))
	if len(cfg.TargetSubreddits) == 0 {
		cfg.TargetSubreddits = []string{"marathi", "mumbai", "india"}
	}

	cfg.BatchSize = intEnv("BATCH_SIZE", 100)
	cfg.MaxPostsPerSubreddit = intEnv("MAX_POSTS_PER_SUBREDDIT", 1000)
	cfg.MaxCommentsPerPost = intEnv("MAX_COMMENTS_PER_POST", 100)
	cfg.Workers = intEnv("WORKERS", 4)

	includeRaw := strings.TrimSpace(os.Getenv("INCLUDE_COMMENTS"))
	cfg.IncludeComments = includeRaw == "" || includeRaw == "1" || strings.EqualFold(includeRaw, "true")

	det, err := loadDetectorConfig()
	if err != nil {
		return nil, err
	}
	cfg.Detector = det

	return cfg, nil
}

// RequireReddit validates that Reddit API credentials are present.
func (c *Cfg) RequireReddit() error {
	if c.RedditClientID == "" || c.RedditClientSecret == "" {
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET must be set")
	}
	return nil
}

// RequireSupabase validates that Supabase credentials are present.
func (c *Cfg) RequireSupabase() error {
	if c.SupabaseURL == "" || c.SupabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set")
	}
	return nil
}

// loadDetectorConfig starts from the tuned defaults and applies any
// per-field environment overrides. Thresholds are pinned in config rather
// than derived at runtime so classification stays reproducible across runs.
func loadDetectorConfig() (detect.Config, error) {
	det := detect.DefaultConfig()

	overrides := []struct {
		env   string
		field *float64
	}{
		{"DETECT_SCRIPT_WEIGHT", &det.ScriptWeight},
		{"DETECT_LEXICAL_WEIGHT", &det.LexicalWeight},
		{"DETECT_DIAGNOSTIC_WEIGHT", &det.DiagnosticWeight},
		{"DETECT_HIGH_THRESHOLD", &det.HighThreshold},
		{"DETECT_LOW_THRESHOLD", &det.LowThreshold},
		{"DETECT_MIXED_SCRIPT_LOW", &det.MixedScriptLow},
		{"DETECT_MIXED_SCRIPT_HIGH", &det.MixedScriptHigh},
	}
	for _, o := range overrides {
		raw := strings.TrimSpace(os.Getenv(o.env))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return det, fmt.Errorf("invalid %s value %q: %w", o.env, raw, err)
		}
		if f < 0 || f > 1 {
			return det, fmt.Errorf("%s must be within [0,1], got %v", o.env, f)
		}
		*o.field = f
	}
	return det, nil
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// intEnv parses an integer env var, returning def when unset or invalid.
func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
