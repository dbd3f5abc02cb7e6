// Package format prepares classified Marathi content for LLM training.
//
// It strips Reddit-flavored markdown, normalizes Devanagari text for
// consistent tokenization, segments sentences per language, and renders
// stored records into the training entry layout consumed downstream.
package format

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/chriscorrea/lekh/internal/counter"
	"github.com/chriscorrea/lekh/internal/detect"
	"github.com/chriscorrea/lekh/internal/store"
)

// dandaSplit segments Devanagari text on single and double danda.
var dandaSplit = regexp.MustCompile(`[।॥]+\s*`)

// latinSentenceFallback splits on terminal punctuation when prose-based
// segmentation is unavailable.
var latinSentenceFallback = regexp.MustCompile(`[.!?]+\s+`)

// Processor renders training entries. It carries a token counter for the
// per-format token estimates; construct once and reuse.
type Processor struct {
	tokens counter.Counter
}

// NewProcessor creates a Processor with a tiktoken-backed token counter.
func NewProcessor() (*Processor, error) {
	tc, err := counter.NewCounter(counter.Tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token counter: %w", err)
	}
	return &Processor{tokens: tc}, nil
}

// CleanRedditFormatting strips Reddit markdown markers and HTML entities,
// leaving plain text.
func CleanRedditFormatting(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)

	p := getRedditPatterns()
	text = p.spoiler.ReplaceAllString(text, "$1")
	text = p.link.ReplaceAllString(text, "$1")
	text = p.bold.ReplaceAllString(text, "$1")
	text = p.strike.ReplaceAllString(text, "$1")
	text = p.italic.ReplaceAllString(text, "$1")
	text = p.quote.ReplaceAllString(text, "")
	text = p.bullet.ReplaceAllString(text, "")
	text = p.numbered.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// NormalizeDevanagari applies NFKC normalization, removes zero-width
// characters that break tokenization of conjuncts, and standardizes
// whitespace around danda punctuation.
func NormalizeDevanagari(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFKC.String(text)

	p := getRedditPatterns()
	text = p.zeroWidth.ReplaceAllString(text, "")
	text = p.dandaSpace.ReplaceAllString(text, "$1 ")

	return strings.TrimSpace(text)
}

// SegmentSentences splits text into sentences using category-appropriate
// boundaries: danda for Marathi, prose segmentation for English, and both
// for mixed content.
func SegmentSentences(text string, category detect.Category) []string {
	text = NormalizeDevanagari(CleanRedditFormatting(text))
	if text == "" {
		return nil
	}

	var sentences []string
	switch category {
	case detect.PureMarathi:
		sentences = dandaSplit.Split(text, -1)
	case detect.NonMarathi:
		sentences = englishSentences(text)
	default:
		// mixed: split on danda first, then segment English within each part
		for _, segment := range dandaSplit.Split(text, -1) {
			if strings.ContainsAny(segment, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
				sentences = append(sentences, englishSentences(segment)...)
			} else {
				sentences = append(sentences, segment)
			}
		}
	}

	out := sentences[:0]
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// englishSentences segments English text with prose, falling back to
// punctuation splitting if document construction fails.
func englishSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false))
	if err != nil {
		slog.Debug("prose segmentation failed, using punctuation fallback", "error", err)
		return latinSentenceFallback.Split(text, -1)
	}

	var out []string
	for _, s := range doc.Sentences() {
		out = append(out, s.Text)
	}
	return out
}

// Entry is one training-dataset record rendered in several encodings.
type Entry struct {
	ID                string            `json:"id"`
	Source            string            `json:"source"`
	Metadata          Metadata          `json:"metadata"`
	TextFormats       TextFormats       `json:"text_formats"`
	LanguageSeparated LanguageSeparated `json:"language_separated"`
	Segmented         Segmented         `json:"segmented"`
	TokenEstimates    map[string]int    `json:"token_estimates"`
}

// Metadata carries the classification and provenance fields downstream
// consumers filter on.
type Metadata struct {
	Language    string  `json:"language"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	ContentType string  `json:"content_type"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  string  `json:"created_utc"`
}

// TextFormats holds the rendered encodings of one record.
type TextFormats struct {
	Raw     string `json:"raw"`
	Clean   string `json:"clean"`
	Compact string `json:"compact"`
	Context string `json:"context"`
}

// LanguageSeparated holds the split portions of mixed content.
type LanguageSeparated struct {
	Marathi string `json:"marathi"`
	English string `json:"english"`
}

// Segmented holds per-language sentence lists for long-context handling.
type Segmented struct {
	Sentences        []string `json:"sentences"`
	MarathiSentences []string `json:"marathi_sentences"`
	EnglishSentences []string `json:"english_sentences"`
}

// TrainingEntry renders a stored record into the training-dataset layout.
func (p *Processor) TrainingEntry(rec store.Record) Entry {
	title := CleanRedditFormatting(rec.Title)
	body := CleanRedditFormatting(rec.Body)
	marathi := NormalizeDevanagari(rec.MarathiText)
	english := CleanRedditFormatting(rec.EnglishText)

	category := categoryOf(rec.LanguageCategory)

	clean := joinNonEmpty("\n\n", title, body)
	compact := compactFormat(title, marathi, english)
	context := contextFormat(rec.ContentType, title, body, marathi, english)

	entry := Entry{
		ID:     rec.RedditID,
		Source: fmt.Sprintf("reddit_r_%s", rec.Subreddit),
		Metadata: Metadata{
			Language:    "marathi",
			Category:    rec.LanguageCategory,
			Confidence:  rec.Confidence,
			ContentType: rec.ContentType,
			Subreddit:   rec.Subreddit,
			CreatedUTC:  rec.RedditCreatedUTC.Format("2006-01-02T15:04:05Z"),
		},
		TextFormats: TextFormats{
			Raw:     rec.Body,
			Clean:   clean,
			Compact: compact,
			Context: context,
		},
		LanguageSeparated: LanguageSeparated{
			Marathi: marathi,
			English: english,
		},
		Segmented: Segmented{
			Sentences:        SegmentSentences(joinNonEmpty(" ", title, body), category),
			MarathiSentences: SegmentSentences(marathi, detect.PureMarathi),
			EnglishSentences: SegmentSentences(english, detect.NonMarathi),
		},
		TokenEstimates: map[string]int{
			"clean":   p.tokens.Count(clean),
			"compact": p.tokens.Count(compact),
			"context": p.tokens.Count(context),
		},
	}
	return entry
}

// compactFormat renders the token-efficient single-line encoding. The title
// label follows the dominant language of the record.
func compactFormat(title, marathi, english string) string {
	var parts []string
	if title != "" {
		if marathi != "" {
			parts = append(parts, "शीर्षक: "+title)
		} else {
			parts = append(parts, "Title: "+title)
		}
	}
	if marathi != "" {
		parts = append(parts, "मराठी: "+marathi)
	}
	if english != "" {
		parts = append(parts, "English: "+english)
	}
	return strings.Join(parts, " | ")
}

// contextFormat renders the RAG/embedding-oriented encoding.
func contextFormat(contentType, title, body, marathi, english string) string {
	var parts []string
	switch {
	case title != "" && body != "":
		parts = append(parts, fmt.Sprintf("Reddit %s: %s", contentType, title), body)
	case title != "":
		parts = append(parts, title)
	case body != "":
		parts = append(parts, body)
	}
	if marathi != "" && english != "" {
		parts = append(parts, "Marathi content: "+marathi, "English content: "+english)
	}
	return strings.Join(parts, "\n\n")
}

// categoryOf maps a stored category name back to its detect.Category.
func categoryOf(name string) detect.Category {
	switch name {
	case "pure_marathi":
		return detect.PureMarathi
	case "mixed_content":
		return detect.MixedContent
	default:
		return detect.NonMarathi
	}
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Counters backing ValidateForTraining; Devanagari is multi-byte so length
// limits are enforced on runes, not bytes.
var (
	charCounter = counter.NewCharCounter()
	wordCounter = counter.NewWordCounter()
)

// minTrainingWords is the floor on whitespace-separated words; a lone token
// carries no sentence structure worth training on.
const minTrainingWords = 2

// ValidateForTraining checks whether content is usable as a Marathi training
// sample. Length limits are in runes. Returns false with a reason for
// unusable content.
func ValidateForTraining(content string, minLength, maxLength int) (bool, string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return false, "empty content"
	}
	length := charCounter.Count(content)
	if length < minLength {
		return false, fmt.Sprintf("content too short (%d < %d)", length, minLength)
	}
	if length > maxLength {
		return false, fmt.Sprintf("content too long (%d > %d)", length, maxLength)
	}
	if words := wordCounter.Count(content); words < minTrainingWords {
		return false, fmt.Sprintf("too few words (%d < %d)", words, minTrainingWords)
	}

	meaningful := 0
	devanagari := 0
	for _, r := range content {
		if unicode.IsLetter(r) {
			meaningful++
		}
		if r >= 0x0900 && r <= 0x097F {
			devanagari++
		}
	}
	if meaningful < minLength/2 {
		return false, "insufficient meaningful content"
	}
	if devanagari < 3 {
		return false, "insufficient Devanagari characters for Marathi content"
	}
	return true, ""
}
