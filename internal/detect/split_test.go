package detect_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/chriscorrea/lekh/internal/detect"
)

func TestSplit_MixedContent(t *testing.T) {
	d := detect.NewDefault()
	res := d.Split("मी आज office ला जातो")

	if res.MarathiText != "मी आज ला जातो" {
		t.Errorf("MarathiText = %q, want %q", res.MarathiText, "मी आज ला जातो")
	}
	if res.EnglishText != "office" {
		t.Errorf("EnglishText = %q, want %q", res.EnglishText, "office")
	}
}

func TestSplit_Degenerate(t *testing.T) {
	d := detect.NewDefault()

	tests := []struct {
		name        string
		text        string
		wantMarathi string
		wantEnglish string
	}{
		{
			name:        "empty",
			text:        "",
			wantMarathi: "",
			wantEnglish: "",
		},
		{
			name:        "all Marathi",
			text:        "मी आहे आणि तर",
			wantMarathi: "मी आहे आणि तर",
			wantEnglish: "",
		},
		{
			name:        "all English",
			text:        "just some english words",
			wantMarathi: "",
			wantEnglish: "just some english words",
		},
		{
			name:        "neutral-only input falls to English",
			text:        "123 456 ...",
			wantMarathi: "",
			wantEnglish: "123 456 ...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Split(tt.text)
			if res.MarathiText != tt.wantMarathi {
				t.Errorf("MarathiText = %q, want %q", res.MarathiText, tt.wantMarathi)
			}
			if res.EnglishText != tt.wantEnglish {
				t.Errorf("EnglishText = %q, want %q", res.EnglishText, tt.wantEnglish)
			}
		})
	}
}

func TestSplit_NeutralFollowsNeighbors(t *testing.T) {
	d := detect.NewDefault()

	// the number sits between two Marathi tokens, so it stays with them
	res := d.Split("मी 108 आहे")
	if res.MarathiText != "मी 108 आहे" {
		t.Errorf("MarathiText = %q, want number routed with Marathi neighbors", res.MarathiText)
	}
	if res.EnglishText != "" {
		t.Errorf("EnglishText = %q, want empty", res.EnglishText)
	}

	// disagreeing neighbors: the previous token wins
	res = d.Split("मी 42 office")
	if !strings.Contains(res.MarathiText, "42") {
		t.Errorf("MarathiText = %q, want the neutral token to follow its previous neighbor", res.MarathiText)
	}

	// leading neutral token follows the next decided token
	res = d.Split("!!! मी आहे")
	if !strings.Contains(res.MarathiText, "!!!") {
		t.Errorf("MarathiText = %q, want leading punctuation routed with following Marathi", res.MarathiText)
	}
}

func TestSplit_LosslessPartition(t *testing.T) {
	d := detect.NewDefault()

	inputs := []string{
		"मी आज office ला जातो",
		"hello मी world आहे ok",
		"123 ... मी office!",
		"नमस्कार",
		"plain english only",
		"ळ ऱ random 42",
	}

	for _, input := range inputs {
		res := d.Split(input)

		original := detect.Tokenize(input)
		recombined := append(detect.Tokenize(res.MarathiText), detect.Tokenize(res.EnglishText)...)

		if len(original) != len(recombined) {
			t.Errorf("Split(%q) lost tokens: %d in, %d out", input, len(original), len(recombined))
			continue
		}
		sort.Strings(original)
		sort.Strings(recombined)
		for i := range original {
			if original[i] != recombined[i] {
				t.Errorf("Split(%q) token multiset changed: %v vs %v", input, original, recombined)
				break
			}
		}
	}
}

func TestSplit_OrderPreservedWithinPartitions(t *testing.T) {
	d := detect.NewDefault()
	res := d.Split("मी office आज ला school जातो")

	if res.MarathiText != "मी आज ला जातो" {
		t.Errorf("MarathiText = %q, Marathi tokens out of order", res.MarathiText)
	}
	if res.EnglishText != "office school" {
		t.Errorf("EnglishText = %q, English tokens out of order", res.EnglishText)
	}
}
