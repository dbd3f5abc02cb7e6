// Package counter provides text counting for training-data preparation.
//
// Token counts (tiktoken, cl100k_base encoding) drive the per-format token
// estimates attached to training entries; word and character counts back the
// content-length validation limits. Devanagari text tokenizes far less
// efficiently than English under BPE encodings, which is why the estimates
// are computed exactly rather than approximated from word counts.
package counter

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Tokens uses tiktoken with cl100k_base encoding (default)
	Tokens CountingMethod = iota
	// Words counts whitespace-separated words
	Words
	// Characters counts runes including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// NewCounter creates a Counter for the specified method. Returns an error if
// the counter cannot be initialized (e.g. the tiktoken encoding fails to load).
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		return NewTokenCounter()
	}
}
