package mdcite

import "strings"

// Significant-word heuristics for the line-overlap fallback.
const (
	overlapWords     = 5 // words taken from each end of the passage
	overlapThreshold = 3 // matches required on a line (or all, if fewer)
	minSignifLen     = 2 // words this short or shorter carry no signal
)

// contextAround returns passage's surrounding lines from doc, expanded by
// contextLines on each side. This is the lenient, line-budgeted strategy:
// when the normalized passage is not a substring of the normalized document
// it falls back to scanning for lines sharing a majority of the passage's
// significant words, and when even that fails it returns the document
// unmodified. Over-inclusion is preferred to failure here; callers that
// need a hard answer use locatePassage instead.
func contextAround(doc, passage string, contextLines int) string {
	lines := strings.Split(doc, "\n")

	normDoc := normalizeText(doc)
	normPassage := normalizeText(passage)

	pos := strings.Index(normDoc, normPassage)
	if pos < 0 {
		return overlapContext(lines, passage, contextLines)
	}

	startLine, endLine := lineRangeForNormalizedSpan(lines, pos, len(normPassage))

	from := max(0, startLine-contextLines)
	to := min(len(lines), endLine+contextLines+1)
	return strings.Join(lines[from:to], "\n")
}

// lineRangeForNormalizedSpan maps a span in the normalized document back to
// a line range by accumulating per-line normalized lengths plus one joiner
// per line break. Approximate when blank-line runs collapse, which is
// acceptable for choosing surrounding lines.
func lineRangeForNormalizedSpan(lines []string, pos, length int) (startLine, endLine int) {
	startLine, endLine = -1, -1
	cur := 0

	for i, line := range lines {
		lineLen := len(normalizeText(line))

		if startLine < 0 && cur <= pos && pos < cur+lineLen+1 {
			startLine = i
		}
		if startLine >= 0 && cur+lineLen >= pos+length {
			endLine = i
			break
		}

		cur += lineLen + 1
	}

	if startLine < 0 {
		startLine = 0
	}
	if endLine < 0 {
		endLine = len(lines) - 1
	}
	return startLine, endLine
}

// overlapContext estimates the passage's line range by word overlap: a line
// containing a majority of the first few significant words starts the
// range, one containing a majority of the last few ends it. Returns the
// document joined back together when no start line qualifies.
func overlapContext(lines []string, passage string, contextLines int) string {
	words := strings.Fields(passage)

	startLine, ok := findOverlapLine(lines, significantWords(words[:min(overlapWords, len(words))]))
	if !ok {
		return strings.Join(lines, "\n")
	}

	endLine, ok := findOverlapLine(lines[startLine:], significantWords(words[max(0, len(words)-overlapWords):]))
	if ok {
		endLine += startLine
	} else {
		// Estimate: passages run roughly five words per line.
		endLine = startLine + len(words)/overlapWords
	}

	from := max(0, startLine-contextLines)
	to := min(len(lines), endLine+contextLines+1)
	return strings.Join(lines[from:to], "\n")
}

// findOverlapLine returns the first line index whose text contains at least
// overlapThreshold of the given words (or all of them, when fewer are
// available).
func findOverlapLine(lines []string, words []string) (int, bool) {
	if len(words) == 0 {
		return 0, false
	}
	need := min(overlapThreshold, len(words))

	for i := range lines {
		lower := strings.ToLower(lines[i])
		matches := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				matches++
			}
		}
		if matches >= need {
			return i, true
		}
	}
	return 0, false
}

// significantWords lowercases words and drops those too short to carry
// signal ("the", "a", "of" and other glue).
func significantWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > minSignifLen {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}

// contextAroundWithSpan returns contextAround's excerpt together with the
// passage's raw span inside it. When the normalized passage is not an exact
// substring of the excerpt, a five-word bracket at each end is tried; when
// that fails too, the span covers the whole excerpt.
func contextAroundWithSpan(doc, passage string, contextLines int) (string, int, int) {
	ctx := contextAround(doc, passage, contextLines)

	normCtx := normalizeText(ctx)
	normPassage := normalizeText(passage)

	pos := strings.Index(normCtx, normPassage)
	length := len(normPassage)

	if pos < 0 {
		words := strings.Fields(normPassage)
		startPhrase := strings.Join(words[:min(overlapWords, len(words))], " ")
		endPhrase := strings.Join(words[max(0, len(words)-overlapWords):], " ")

		startPos := strings.Index(normCtx, startPhrase)
		endPos := strings.Index(normCtx, endPhrase)
		if startPos < 0 || endPos < 0 {
			return ctx, 0, len(ctx)
		}
		pos = startPos
		length = endPos - startPos + len(endPhrase)
	}

	start, end := mapNormalizedSpanToRaw(ctx, pos, pos+length)
	return ctx, start, end
}

// findContext locates a free-text query in doc and returns the query's line
// plus contextLines lines on each side. Reports false when the normalized
// query does not occur in the normalized document.
func findContext(doc, query string, contextLines int) (string, bool) {
	normDoc := normalizeText(doc)
	normQuery := normalizeText(query)
	if normQuery == "" {
		return "", false
	}

	pos := strings.Index(normDoc, normQuery)
	if pos < 0 {
		return "", false
	}

	lines := strings.Split(doc, "\n")
	startLine, _ := lineRangeForNormalizedSpan(lines, pos, 0)

	from := max(0, startLine-contextLines)
	to := min(len(lines), startLine+contextLines+1)
	return strings.Join(lines[from:to], "\n"), true
}
