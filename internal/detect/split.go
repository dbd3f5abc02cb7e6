package detect

import "strings"

// SplitResult partitions a text's tokens into Marathi and English portions.
// Every input token lands in exactly one side, in original order.
type SplitResult struct {
	MarathiText string `json:"marathi_text"`
	EnglishText string `json:"english_text"`
}

// token routing sides
type side int8

const (
	sideNeutral side = iota
	sideMarathi
	sideEnglish
)

// Split partitions text into its Marathi and English parts using a per-token
// script majority, with lexical lookup breaking ties. It is meaningful for
// MixedContent input but terminates with a valid (possibly one-sided) result
// for any input. Runs in a single pass plus neighbor resolution, linear in
// text length.
func (d *Detector) Split(text string) SplitResult {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return SplitResult{}
	}

	sides := make([]side, len(tokens))
	for i, tok := range tokens {
		sides[i] = d.routeToken(tok)
	}

	// tokens with no alphabetic content (numbers, bare punctuation, emoji)
	// follow their neighbors: agreement wins, the previous token wins a
	// disagreement, and a token with no decided neighbor goes to English.
	resolveNeutral(sides)

	var marathi, english []string
	for i, tok := range tokens {
		if sides[i] == sideMarathi {
			marathi = append(marathi, tok)
		} else {
			english = append(english, tok)
		}
	}
	return SplitResult{
		MarathiText: strings.Join(marathi, " "),
		EnglishText: strings.Join(english, " "),
	}
}

// routeToken decides a single token's side by script majority; on a tie
// (equal counts, including zero) it falls back to dictionary lookups.
func (d *Detector) routeToken(tok string) side {
	var dev, lat int
	for _, r := range tok {
		switch {
		case isDevanagari(r):
			dev++
		case isLatinLetter(r):
			lat++
		}
	}
	switch {
	case dev > lat:
		return sideMarathi
	case lat > dev:
		return sideEnglish
	case dev == 0:
		return sideNeutral
	}

	// equal non-zero counts: lexical tie-break
	core := lexicalKey(tok)
	if core == "" {
		return sideNeutral
	}
	if _, ok := d.ref.KnownWords[core]; ok {
		return sideMarathi
	}
	if _, ok := d.ref.EnglishWords[stemEnglish(core)]; ok {
		return sideEnglish
	}
	return sideMarathi
}

// resolveNeutral assigns each neutral token the side of its nearest decided
// neighbors, in place.
func resolveNeutral(sides []side) {
	for i, s := range sides {
		if s != sideNeutral {
			continue
		}
		prev := nearestDecided(sides, i, -1)
		next := nearestDecided(sides, i, +1)
		switch {
		case prev == next && prev != sideNeutral:
			sides[i] = prev
		case prev != sideNeutral && next == sideNeutral:
			sides[i] = prev
		case next != sideNeutral && prev == sideNeutral:
			sides[i] = next
		case prev != sideNeutral && next != sideNeutral:
			sides[i] = prev
		default:
			sides[i] = sideEnglish
		}
	}
}

// nearestDecided scans from i in the given direction for a non-neutral side.
func nearestDecided(sides []side, i, step int) side {
	for j := i + step; j >= 0 && j < len(sides); j += step {
		if sides[j] != sideNeutral {
			return sides[j]
		}
	}
	return sideNeutral
}
