// Shared regex patterns for Reddit markup cleanup.
package format

import (
	"regexp"
	"sync"
)

// redditPatterns holds compiled patterns for stripping Reddit-flavored
// markdown down to plain text.
type redditPatterns struct {
	bold       *regexp.Regexp
	italic     *regexp.Regexp
	strike     *regexp.Regexp
	link       *regexp.Regexp
	spoiler    *regexp.Regexp
	quote      *regexp.Regexp
	bullet     *regexp.Regexp
	numbered   *regexp.Regexp
	zeroWidth  *regexp.Regexp
	dandaSpace *regexp.Regexp
}

var (
	patterns     *redditPatterns
	patternsOnce sync.Once
)

// getRedditPatterns returns the singleton instance of compiled patterns
func getRedditPatterns() *redditPatterns {
	patternsOnce.Do(func() {
		patterns = &redditPatterns{
			bold:     regexp.MustCompile(`\*\*(.*?)\*\*`),
			italic:   regexp.MustCompile(`\*(.*?)\*`),
			strike:   regexp.MustCompile(`~~(.*?)~~`),
			link:     regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`),
			spoiler:  regexp.MustCompile(`>!([^!]+)!<`),
			quote:    regexp.MustCompile(`(?m)^>\s*`),
			bullet:   regexp.MustCompile(`(?m)^\s*[-*+]\s+`),
			numbered: regexp.MustCompile(`(?m)^\s*\d+\.\s+`),
			// zero-width joiners/non-joiners and BOM interfere with
			// consistent tokenization of Devanagari conjuncts
			zeroWidth:  regexp.MustCompile("[\u200C\u200D\uFEFF]"),
			dandaSpace: regexp.MustCompile(`\s*([।॥])\s*`),
		}
	})
	return patterns
}
