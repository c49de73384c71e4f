package mdcite

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// crlfOrCR matches Windows and old-Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// normalizeLineEndings converts \r\n and \r to \n.
// Applied once when a document is read, before any offset work.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// normalizeText collapses every whitespace run to a single space, strips
// leading and trailing space, and lowercases. Pure and idempotent; used to
// compare text that differs only in layout (line breaks, indentation, case).
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inRun = true
			continue
		}
		if inRun && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inRun = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// mapNormalizedSpanToRaw translates a span of byte offsets in
// normalizeText(original) back to byte offsets in original.
//
// It replays the normalization as a two-cursor scan: a whitespace run
// advances the normalized cursor at most once (and only when the normalized
// text actually has a space at that position, which excludes leading and
// trailing runs); a non-whitespace rune advances the cursor when its
// lowercased form matches the expected normalized rune. The raw start is
// recorded the first time the cursor reaches normStart, the raw end the
// first time it reaches normEnd.
//
// Targets that are never reached fall back to 0 and len(original). Losing
// precision here must not abort the pipeline, so this never fails.
func mapNormalizedSpanToRaw(original string, normStart, normEnd int) (int, int) {
	normalized := normalizeText(original)

	rawStart, rawEnd := -1, -1
	normPos := 0
	inRun := false

	for rawPos, r := range original {
		if rawStart < 0 && normPos >= normStart {
			rawStart = rawPos
		}
		if rawEnd < 0 && normPos >= normEnd {
			rawEnd = rawPos
			break
		}

		if unicode.IsSpace(r) {
			if !inRun {
				inRun = true
				if normPos > 0 && normPos < len(normalized) && normalized[normPos] == ' ' {
					normPos++
				}
			}
			continue
		}
		inRun = false

		if normPos < len(normalized) {
			want, size := utf8.DecodeRuneInString(normalized[normPos:])
			if unicode.ToLower(r) == want {
				normPos += size
			}
		}
	}

	if rawStart < 0 {
		rawStart = 0
	}
	if rawEnd < 0 {
		rawEnd = len(original)
	}
	return rawStart, rawEnd
}
