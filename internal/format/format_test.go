package format_test

import (
	"strings"
	"testing"
	"time"

	"github.com/chriscorrea/lekh/internal/detect"
	"github.com/chriscorrea/lekh/internal/format"
	"github.com/chriscorrea/lekh/internal/store"
)

func TestCleanRedditFormatting(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain text untouched", "साधा मजकूर", "साधा मजकूर"},
		{"bold stripped", "**ठळक** मजकूर", "ठळक मजकूर"},
		{"italic stripped", "*तिरपा* मजकूर", "तिरपा मजकूर"},
		{"strikethrough stripped", "~~खोडलेले~~ शब्द", "खोडलेले शब्द"},
		{"link keeps anchor text", "[मराठी विकिपीडिया](https://mr.wikipedia.org) पहा", "मराठी विकिपीडिया पहा"},
		{"spoiler unwrapped", ">!गुपित मजकूर!<", "गुपित मजकूर"},
		{"quote marker removed", "> उद्धृत वाक्य", "उद्धृत वाक्य"},
		{"bullets removed", "- पहिला\n- दुसरा", "पहिला\nदुसरा"},
		{"numbered list removed", "1. एक\n2. दोन", "एक\nदोन"},
		{"html entities unescaped", "R&amp;D मध्ये काम", "R&D मध्ये काम"},
		{"surrounding whitespace trimmed", "  मजकूर  ", "मजकूर"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := format.CleanRedditFormatting(tt.input)
			if result != tt.expected {
				t.Errorf("CleanRedditFormatting(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeDevanagari(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain text untouched", "मी घरी जातो", "मी घरी जातो"},
		{"zero-width joiner removed", "शक्\u200dती", "शक्ती"},
		{"zero-width non-joiner removed", "क्\u200cया", "क्या"},
		{"danda spacing standardized", "पहिले वाक्य ।दुसरे वाक्य।", "पहिले वाक्य। दुसरे वाक्य।"},
		{"double danda spacing", "पहिली ओळ॥दुसरी ओळ", "पहिली ओळ॥ दुसरी ओळ"},
		{"nfkc compatibility folding", "１２３ वेळा", "123 वेळा"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := format.NormalizeDevanagari(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeDevanagari(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSegmentSentences(t *testing.T) {
	t.Run("pure marathi splits on danda", func(t *testing.T) {
		sentences := format.SegmentSentences("हे पहिले वाक्य। हे दुसरे वाक्य॥", detect.PureMarathi)
		if len(sentences) != 2 {
			t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
		}
		if sentences[0] != "हे पहिले वाक्य" || sentences[1] != "हे दुसरे वाक्य" {
			t.Errorf("unexpected sentences: %v", sentences)
		}
	})

	t.Run("english splits on sentence boundaries", func(t *testing.T) {
		sentences := format.SegmentSentences("This is the first sentence. This is the second one.", detect.NonMarathi)
		if len(sentences) != 2 {
			t.Fatalf("expected 2 sentences, got %d: %v", len(sentences), sentences)
		}
	})

	t.Run("mixed splits on danda then english punctuation", func(t *testing.T) {
		sentences := format.SegmentSentences("मी घरी जातो। Then I left for work. It was late.", detect.MixedContent)
		if len(sentences) != 3 {
			t.Fatalf("expected 3 sentences, got %d: %v", len(sentences), sentences)
		}
		if sentences[0] != "मी घरी जातो" {
			t.Errorf("expected Marathi sentence first, got %q", sentences[0])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if sentences := format.SegmentSentences("", detect.PureMarathi); len(sentences) != 0 {
			t.Errorf("expected no sentences for empty input, got %v", sentences)
		}
	})

	t.Run("markdown cleaned before segmenting", func(t *testing.T) {
		sentences := format.SegmentSentences("**ठळक वाक्य।** दुसरे वाक्य।", detect.PureMarathi)
		for _, s := range sentences {
			if strings.Contains(s, "*") {
				t.Errorf("markdown marker survived segmentation: %q", s)
			}
		}
	})
}

func TestTrainingEntry(t *testing.T) {
	proc, err := format.NewProcessor()
	if err != nil {
		t.Fatalf("NewProcessor() failed: %v", err)
	}

	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	rec := store.Record{
		RedditID:         "abc123",
		ContentType:      "post",
		Subreddit:        "marathi",
		Title:            "**आजचा प्रश्न**",
		Body:             "मी आज office ला जातो। What do you all think?",
		LanguageCategory: "mixed_content",
		Confidence:       0.62,
		MarathiText:      "मी आज ला जातो।",
		EnglishText:      "office What do you all think?",
		Score:            42,
		RedditCreatedUTC: created,
	}

	entry := proc.TrainingEntry(rec)

	if entry.ID != "abc123" {
		t.Errorf("ID = %q, want %q", entry.ID, "abc123")
	}
	if entry.Source != "reddit_r_marathi" {
		t.Errorf("Source = %q, want %q", entry.Source, "reddit_r_marathi")
	}
	if entry.Metadata.Category != "mixed_content" {
		t.Errorf("Metadata.Category = %q, want mixed_content", entry.Metadata.Category)
	}
	if entry.Metadata.Confidence != 0.62 {
		t.Errorf("Metadata.Confidence = %v, want 0.62", entry.Metadata.Confidence)
	}
	if entry.Metadata.CreatedUTC != "2024-03-15T10:30:00Z" {
		t.Errorf("Metadata.CreatedUTC = %q", entry.Metadata.CreatedUTC)
	}

	// markdown is stripped everywhere except the raw format
	if !strings.Contains(entry.TextFormats.Raw, rec.Body) {
		t.Errorf("Raw should carry the original body")
	}
	if strings.Contains(entry.TextFormats.Clean, "**") {
		t.Errorf("Clean still contains markdown: %q", entry.TextFormats.Clean)
	}
	if !strings.HasPrefix(entry.TextFormats.Clean, "आजचा प्रश्न") {
		t.Errorf("Clean should start with the cleaned title: %q", entry.TextFormats.Clean)
	}

	// compact labels follow the dominant language
	if !strings.Contains(entry.TextFormats.Compact, "शीर्षक: आजचा प्रश्न") {
		t.Errorf("Compact missing Marathi title label: %q", entry.TextFormats.Compact)
	}
	if !strings.Contains(entry.TextFormats.Compact, "मराठी: ") ||
		!strings.Contains(entry.TextFormats.Compact, "English: ") {
		t.Errorf("Compact missing language sections: %q", entry.TextFormats.Compact)
	}

	if !strings.Contains(entry.TextFormats.Context, "Reddit post: आजचा प्रश्न") {
		t.Errorf("Context missing header: %q", entry.TextFormats.Context)
	}

	if entry.LanguageSeparated.Marathi == "" || entry.LanguageSeparated.English == "" {
		t.Errorf("expected both language portions, got %+v", entry.LanguageSeparated)
	}

	if len(entry.Segmented.Sentences) == 0 {
		t.Errorf("expected segmented sentences")
	}
	if len(entry.Segmented.MarathiSentences) == 0 {
		t.Errorf("expected segmented Marathi sentences")
	}

	for _, key := range []string{"clean", "compact", "context"} {
		if entry.TokenEstimates[key] <= 0 {
			t.Errorf("TokenEstimates[%q] = %d, want positive", key, entry.TokenEstimates[key])
		}
	}
}

func TestTrainingEntryEnglishTitleLabel(t *testing.T) {
	proc, err := format.NewProcessor()
	if err != nil {
		t.Fatalf("NewProcessor() failed: %v", err)
	}

	rec := store.Record{
		RedditID:         "def456",
		ContentType:      "post",
		Subreddit:        "mumbai",
		Title:            "Weekend plans",
		Body:             "Anyone visiting the fort this weekend?",
		LanguageCategory: "non_marathi",
		RedditCreatedUTC: time.Now().UTC(),
	}

	entry := proc.TrainingEntry(rec)
	if !strings.Contains(entry.TextFormats.Compact, "Title: Weekend plans") {
		t.Errorf("Compact should use English title label when no Marathi text: %q", entry.TextFormats.Compact)
	}
}

func TestValidateForTraining(t *testing.T) {
	longMarathi := strings.Repeat("मराठी मजकूर ", 10)

	tests := []struct {
		name      string
		content   string
		minLength int
		maxLength int
		valid     bool
		reason    string
	}{
		{"empty", "", 10, 1000, false, "empty content"},
		{"whitespace only", "   \n\t ", 10, 1000, false, "empty content"},
		{"too short", "मी", 10, 1000, false, "content too short"},
		{"single word", "महाराष्ट्रातील", 10, 1000, false, "too few words"},
		{"too long", longMarathi, 10, 50, false, "content too long"},
		{"valid marathi", "मी आज घरी जातो आहे", 10, 1000, true, ""},
		{"no devanagari", "This is English content only", 10, 1000, false, "insufficient Devanagari"},
		{"punctuation only", "!!!???!!!???", 10, 1000, false, "insufficient meaningful"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := format.ValidateForTraining(tt.content, tt.minLength, tt.maxLength)
			if valid != tt.valid {
				t.Errorf("ValidateForTraining(%q) = %v (%q), want valid=%v", tt.content, valid, reason, tt.valid)
			}
			if !tt.valid && !strings.Contains(reason, tt.reason) {
				t.Errorf("reason %q should contain %q", reason, tt.reason)
			}
		})
	}
}
