package mdcite

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged except case",
			input: "Hello World",
			want:  "hello world",
		},
		{
			name:  "collapses whitespace runs",
			input: "a   \n\t b",
			want:  "a b",
		},
		{
			name:  "strips leading and trailing whitespace",
			input: "  \n text \t ",
			want:  "text",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \n\t\r ",
			want:  "",
		},
		{
			name:  "newlines inside markdown",
			input: "# Title\n\nSome **bold** text",
			want:  "# title some **bold** text",
		},
		{
			name:  "unicode letters lowercased",
			input: "Größe MATTERS",
			want:  "größe matters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeText(tt.input)
			if got != tt.want {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Hello   World",
		"a\n\n\nb\tc",
		"  MIXED Case \r\n text  ",
		"",
		"already normalized",
	}

	for _, in := range inputs {
		once := normalizeText(in)
		twice := normalizeText(once)
		if once != twice {
			t.Errorf("normalizeText not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	got := normalizeLineEndings("a\r\nb\rc\nd")
	want := "a\nb\nc\nd"
	if got != want {
		t.Errorf("normalizeLineEndings = %q, want %q", got, want)
	}
}

func TestMapNormalizedSpanToRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		normStart int
		normEnd   int
		wantStart int
		wantEnd   int
	}{
		{
			name:      "identity on already normalized text",
			original:  "hello world",
			normStart: 0,
			normEnd:   5,
			wantStart: 0,
			wantEnd:   5,
		},
		{
			name:      "span at end maps to raw end",
			original:  "Hello World",
			normStart: 6,
			normEnd:   11,
			wantStart: 6,
			wantEnd:   11,
		},
		{
			name:      "whitespace run before target",
			original:  "alpha    beta",
			normStart: 6, // "beta" in "alpha beta"
			normEnd:   10,
			wantStart: 6, // cursor reaches 6 inside the run; slop is whitespace only
			wantEnd:   13,
		},
		{
			name:      "zero-length span",
			original:  "some text",
			normStart: 5,
			normEnd:   5,
			wantStart: 5,
			wantEnd:   5,
		},
		{
			name:      "empty original falls back to full range",
			original:  "",
			normStart: 0,
			normEnd:   4,
			wantStart: 0,
			wantEnd:   0,
		},
		{
			name:      "out of range falls back to full range",
			original:  "short",
			normStart: 100,
			normEnd:   200,
			wantStart: 0,
			wantEnd:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := mapNormalizedSpanToRaw(tt.original, tt.normStart, tt.normEnd)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("mapNormalizedSpanToRaw(%q, %d, %d) = (%d, %d), want (%d, %d)",
					tt.original, tt.normStart, tt.normEnd, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// Mapping a normalized span to raw offsets and normalizing the extracted
// raw substring must yield text containing the original target. Boundary
// whitespace may widen the raw span, so containment, not equality.
func TestMapNormalizedSpanToRaw_RoundTrip(t *testing.T) {
	t.Parallel()

	originals := []string{
		"# Title\n\nThis is a long sentence with important content to find.\n",
		"alpha    beta\n\n\ngamma delta",
		"Mixed CASE with\ttabs\nand newlines everywhere",
		"one two three four five six seven eight nine ten",
	}

	for _, original := range originals {
		normalized := normalizeText(original)
		for _, span := range [][2]int{
			{0, len(normalized)},
			{0, len(normalized) / 2},
			{len(normalized) / 3, 2 * len(normalized) / 3},
		} {
			target := normalized[span[0]:span[1]]

			rawStart, rawEnd := mapNormalizedSpanToRaw(original, span[0], span[1])
			if rawStart < 0 || rawEnd > len(original) || rawStart > rawEnd {
				t.Fatalf("invalid raw span (%d, %d) for %q", rawStart, rawEnd, original)
			}

			got := normalizeText(original[rawStart:rawEnd])
			if !strings.Contains(got, strings.TrimSpace(target)) {
				t.Errorf("round trip lost text: original %q span (%d, %d): %q does not contain %q",
					original, span[0], span[1], got, target)
			}
		}
	}
}
