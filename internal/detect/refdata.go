package detect

// ReferenceData holds the immutable lexical and script reference sets the
// detector matches against. Construct once at startup (typically via
// DefaultReferenceData) and share freely; the detector only reads it.
type ReferenceData struct {
	// KnownWords contains common Marathi words and particles in Devanagari.
	KnownWords map[string]struct{}

	// DiagnosticChars contains characters used in Marathi but structurally
	// absent from Hindi and other Devanagari-script neighbors. A single
	// occurrence is strong evidence of Marathi.
	DiagnosticChars map[rune]struct{}

	// EnglishWords contains stemmed common English words, used for the
	// English evidence score and for split tie-breaking on Latin tokens.
	EnglishWords map[string]struct{}
}

// marathiWords covers high-frequency function words, question words, place
// names, and everyday vocabulary. Matching is exact on Devanagari tokens.
// TODO: grow this from scraped corpus frequency counts once enough labeled
// data is stored.
var marathiWords = map[string]struct{}{
	// pronouns and copulas
	"आहे": {}, "आणि": {}, "तर": {}, "पण": {}, "मी": {}, "तू": {},
	"तो": {}, "ती": {}, "ते": {}, "आम्ही": {}, "तुम्ही": {},

	// question words
	"काय": {}, "कसे": {}, "कुठे": {}, "केव्हा": {}, "कोण": {}, "किती": {},
	"कशासाठी": {}, "कसा": {}, "कसं": {},

	// places
	"मराठी": {}, "महाराष्ट्र": {}, "मुंबई": {}, "पुणे": {}, "नागपूर": {},
	"कोल्हापूर": {}, "नाशिक": {},

	// adjectives
	"छान": {}, "चांगले": {}, "वाईट": {}, "मोठे": {}, "लहान": {}, "नवीन": {},
	"जुने": {}, "गरम": {}, "थंड": {},

	// everyday nouns
	"घर": {}, "शाळा": {}, "कॉलेज": {}, "ऑफिस": {}, "दुकान": {},
	"हॉस्पिटल": {}, "स्टेशन": {},

	// verbs (infinitives and common inflections)
	"खाणे": {}, "पिणे": {}, "येणे": {}, "जाणे": {}, "बघणे": {}, "ऐकणे": {},
	"बोलणे": {}, "वाचणे": {}, "लिहिणे": {}, "जातो": {}, "येतो": {},

	// particles and interjections
	"होय": {}, "नाही": {}, "ठीक": {}, "चल": {}, "अरे": {}, "अहो": {},
	"काहीही": {}, "सगळे": {}, "काही": {}, "सर्व": {}, "आज": {}, "उद्या": {},
	"ला": {}, "चा": {}, "ची": {}, "चे": {}, "मध्ये": {},
}

// diagnosticChars: ळ and ऱ occur in Marathi (and a few Dravidian-influenced
// scripts) but not in Hindi.
var diagnosticChars = map[rune]struct{}{
	'ळ': {},
	'ऱ': {},
}

// englishWords holds stemmed forms; incoming Latin tokens are stemmed with
// the snowball English stemmer before lookup.
var englishWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "have": {}, "has": {}, "had": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "can": {},
	"may": {}, "might": {}, "must": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"what": {}, "where": {}, "when": {}, "why": {}, "how": {},
	"good": {}, "bad": {}, "big": {}, "small": {}, "new": {}, "old": {},
	"hot": {}, "cold": {}, "fast": {}, "slow": {},
	"you": {}, "not": {}, "for": {}, "with": {}, "just": {}, "like": {},
}

// DefaultReferenceData returns the built-in Marathi reference sets.
// Tests substitute small fixed sets for determinism.
func DefaultReferenceData() ReferenceData {
	return ReferenceData{
		KnownWords:      marathiWords,
		DiagnosticChars: diagnosticChars,
		EnglishWords:    englishWords,
	}
}
