// Package detect implements Marathi language detection and Marathi/English
// content separation for social-media text.
//
// The detector combines three independent signals — Devanagari script ratio,
// lexical matches against a known-word set, and Marathi-specific diagnostic
// characters — into a weighted confidence score, then derives a category
// from ordered thresholds. Both Classify and Split are pure functions of the
// input text and the injected ReferenceData: no I/O, no hidden state, and
// safe for unbounded concurrent use.
package detect

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Devanagari Unicode block boundaries.
const (
	devanagariLo = 0x0900
	devanagariHi = 0x097F
)

// Category is the detector's verdict for one text item.
type Category int

const (
	// NonMarathi covers text with no meaningful Marathi content.
	NonMarathi Category = iota
	// MixedContent covers text combining Marathi and English in
	// meaningful quantity.
	MixedContent
	// PureMarathi covers text written (almost) entirely in Marathi.
	PureMarathi
)

// String returns the storage representation of the category.
func (c Category) String() string {
	switch c {
	case PureMarathi:
		return "pure_marathi"
	case MixedContent:
		return "mixed_content"
	case NonMarathi:
		return "non_marathi"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so categories serialize as
// their storage names in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Config holds the detector's weights and decision thresholds. All values
// are empirically tuned, not derived; override individual fields to retune
// against a labeled sample without touching the algorithm.
type Config struct {
	// Signal weights; must sum to 1. DiagnosticWeight is deliberately
	// small enough that a diagnostic hit alone cannot cross HighThreshold.
	ScriptWeight     float64
	LexicalWeight    float64
	DiagnosticWeight float64

	// HighThreshold is the minimum confidence for PureMarathi.
	HighThreshold float64
	// LowThreshold is the minimum confidence for MixedContent.
	LowThreshold float64

	// MixedContent additionally requires the script ratio to fall strictly
	// inside (MixedScriptLow, MixedScriptHigh) — both scripts present in
	// meaningful quantity.
	MixedScriptLow  float64
	MixedScriptHigh float64
}

// DefaultConfig returns the tuned production constants.
func DefaultConfig() Config {
	return Config{
		ScriptWeight:     0.55,
		LexicalWeight:    0.35,
		DiagnosticWeight: 0.10,
		HighThreshold:    0.60,
		LowThreshold:     0.35,
		MixedScriptLow:   0.05,
		MixedScriptHigh:  0.95,
	}
}

// Result is the full classification breakdown for one input. Values are
// deterministic for a given (text, ReferenceData, Config) triple.
type Result struct {
	// ScriptRatio is Devanagari chars / (Devanagari + Latin chars),
	// 0 when the text has no alphabetic characters.
	ScriptRatio float64 `json:"script_ratio"`
	// LexicalScore is known-word matches / alphabetic tokens.
	LexicalScore float64 `json:"lexical_score"`
	// DiagnosticHit reports whether any Marathi-specific character occurs.
	DiagnosticHit bool `json:"diagnostic_hit"`
	// EnglishScore is supporting evidence of English presence; it does not
	// feed the confidence score.
	EnglishScore float64 `json:"english_score"`
	// Confidence is the weighted combination of the three signals, in [0,1].
	Confidence float64 `json:"confidence"`
	Category   Category `json:"category"`

	// evidence counts
	DevanagariChars int `json:"devanagari_chars"`
	LatinChars      int `json:"latin_chars"`
	MatchedTokens   int `json:"matched_tokens"`
	TotalTokens     int `json:"total_tokens"`
}

// Detector classifies text against an immutable ReferenceData snapshot.
// A Detector is read-only after construction and safe for concurrent use.
type Detector struct {
	ref ReferenceData
	cfg Config
}

// New creates a Detector with the given reference data and configuration.
func New(ref ReferenceData, cfg Config) *Detector {
	return &Detector{ref: ref, cfg: cfg}
}

// NewDefault creates a Detector with the built-in reference data and the
// tuned default configuration.
func NewDefault() *Detector {
	return New(DefaultReferenceData(), DefaultConfig())
}

// Classify analyzes text and returns the full classification breakdown.
// It is total over all string inputs: empty, numeric-only, emoji-only, and
// control-character input all resolve to a valid result, never an error.
func (d *Detector) Classify(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Category: NonMarathi}
	}

	var res Result

	// script and diagnostic-character scan
	for _, r := range text {
		switch {
		case isDevanagari(r):
			res.DevanagariChars++
			if _, ok := d.ref.DiagnosticChars[r]; ok {
				res.DiagnosticHit = true
			}
		case isLatinLetter(r):
			res.LatinChars++
		}
	}
	if total := res.DevanagariChars + res.LatinChars; total > 0 {
		res.ScriptRatio = float64(res.DevanagariChars) / float64(total)
	}

	// lexical scan over alphabetic tokens
	englishMatches := 0
	latinTokens := 0
	for _, tok := range Tokenize(text) {
		core := lexicalKey(tok)
		if core == "" {
			continue
		}
		res.TotalTokens++
		if hasDevanagari(core) {
			if _, ok := d.ref.KnownWords[core]; ok {
				res.MatchedTokens++
			}
			continue
		}
		latinTokens++
		if _, ok := d.ref.EnglishWords[stemEnglish(core)]; ok {
			englishMatches++
		}
	}
	if res.TotalTokens > 0 {
		res.LexicalScore = float64(res.MatchedTokens) / float64(res.TotalTokens)
	}

	// English evidence combines the Latin script share with the recognized
	// English word share
	if res.DevanagariChars+res.LatinChars > 0 {
		latinShare := 1.0 - res.ScriptRatio
		wordShare := 0.0
		if latinTokens > 0 {
			wordShare = float64(englishMatches) / float64(latinTokens)
		}
		res.EnglishScore = 0.6*latinShare + 0.4*wordShare
	}

	diag := 0.0
	if res.DiagnosticHit {
		diag = 1.0
	}
	res.Confidence = clamp01(d.cfg.ScriptWeight*res.ScriptRatio +
		d.cfg.LexicalWeight*res.LexicalScore +
		d.cfg.DiagnosticWeight*diag)

	res.Category = d.categorize(res.Confidence, res.ScriptRatio)
	return res
}

// categorize applies the ordered decision rules. The rules are
// non-overlapping and total: every (confidence, ratio) pair maps to exactly
// one category.
func (d *Detector) categorize(confidence, scriptRatio float64) Category {
	switch {
	case scriptRatio >= d.cfg.MixedScriptHigh && confidence >= d.cfg.HighThreshold:
		return PureMarathi
	case confidence >= d.cfg.LowThreshold &&
		scriptRatio > d.cfg.MixedScriptLow && scriptRatio < d.cfg.MixedScriptHigh:
		return MixedContent
	default:
		return NonMarathi
	}
}

// Tokenize splits text on Unicode whitespace. Punctuation stays attached to
// its token; lexicalKey strips it for dictionary lookups. The splitter uses
// the same tokenization so partitions are lossless.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// lexicalKey normalizes a token for dictionary lookup: edge punctuation is
// trimmed and Latin letters are lowercased. Combining marks count as word
// body — Devanagari matras and virama are category Mn, not letters, and most
// Marathi words end in one. Returns "" for tokens with no letters.
func lexicalKey(tok string) string {
	core := strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r)
	})
	if core == "" || !containsLetter(core) {
		return ""
	}
	return strings.ToLower(core)
}

// stemEnglish reduces a lowercase Latin token to its snowball stem; on
// stemmer failure the original token is used, matching how unknown forms
// behave anyway.
func stemEnglish(tok string) string {
	stemmed, err := snowball.Stem(tok, "english", true)
	if err != nil {
		return tok
	}
	return stemmed
}

func isDevanagari(r rune) bool {
	return r >= devanagariLo && r <= devanagariHi
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func hasDevanagari(s string) bool {
	for _, r := range s {
		if isDevanagari(r) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
