package mdcite

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Anchor sizing. Long anchors are tried first for specificity; short ones
// below four words risk ambiguous matches in prose.
const (
	maxAnchorWords = 10
	minAnchorWords = 4
)

// contextWindow is a bounded excerpt of a document together with the
// located passage's offsets relative to the excerpt's own start.
type contextWindow struct {
	text  string
	start int
	end   int
}

// anchorMatch is a successful anchor search in normalized-document offsets.
type anchorMatch struct {
	start int
	end   int
}

// findStartAnchor searches normDoc for a prefix anchor built from words,
// trying maxAnchorWords words first and shortening down to minAnchorWords.
// Returns the longest match found.
func findStartAnchor(normDoc string, words []string) (anchorMatch, bool) {
	for _, n := range anchorLengths(len(words)) {
		anchor := normalizeText(strings.Join(words[:n], " "))
		if anchor == "" {
			continue
		}
		if idx := strings.Index(normDoc, anchor); idx >= 0 {
			return anchorMatch{start: idx, end: idx + len(anchor)}, true
		}
	}
	return anchorMatch{}, false
}

// findEndAnchor searches normDoc for a suffix anchor built from words,
// restricted to offsets at or after from so an earlier occurrence of the
// passage's tail cannot win.
func findEndAnchor(normDoc string, words []string, from int) (anchorMatch, bool) {
	tail := normDoc[from:]
	for _, n := range anchorLengths(len(words)) {
		anchor := normalizeText(strings.Join(words[len(words)-n:], " "))
		if anchor == "" {
			continue
		}
		if idx := strings.Index(tail, anchor); idx >= 0 {
			return anchorMatch{start: from + idx, end: from + idx + len(anchor)}, true
		}
	}
	return anchorMatch{}, false
}

// anchorLengths returns the candidate anchor word counts in preference
// order, clamped to the number of available words.
func anchorLengths(available int) []int {
	hi := min(maxAnchorWords, available)
	lo := min(minAnchorWords, available)

	lengths := make([]int, 0, hi-lo+1)
	for n := hi; n >= lo; n-- {
		lengths = append(lengths, n)
	}
	return lengths
}

// locatePassage finds passage inside doc and returns a render-sized window
// around it. The passage is bracketed by word anchors: its first words pin
// the start, its last words pin the end, and arbitrary content in between
// (including markdown syntax the passage lacks) is tolerated. The matched
// normalized span is mapped back to raw document offsets and expanded by
// contextChars on each side, clamped to document bounds.
func locatePassage(doc, passage string, contextChars int) (contextWindow, error) {
	words := strings.Fields(passage)
	if len(words) == 0 {
		return contextWindow{}, ErrEmptyPassage
	}

	normDoc := normalizeText(doc)

	start, ok := findStartAnchor(normDoc, words)
	if !ok {
		return contextWindow{}, fmt.Errorf("%w: start anchor", ErrPassageNotFound)
	}

	end, ok := findEndAnchor(normDoc, words, start.end)
	if !ok {
		// Short passages: the end anchor may overlap the start anchor, so
		// retry from the start of the match and only require that the end
		// does not land before it.
		end, ok = findEndAnchor(normDoc, words, start.start)
		if !ok || end.end < start.end {
			return contextWindow{}, fmt.Errorf("%w: end anchor", ErrPassageNotFound)
		}
	}

	rawStart, rawEnd := mapNormalizedSpanToRaw(doc, start.start, end.end)

	// The budget is byte arithmetic, so snap both edges outward to rune
	// boundaries; a window cut mid-rune is invalid UTF-8.
	winStart := max(0, rawStart-contextChars)
	for winStart > 0 && !utf8.RuneStart(doc[winStart]) {
		winStart--
	}
	winEnd := min(len(doc), rawEnd+contextChars)
	for winEnd < len(doc) && !utf8.RuneStart(doc[winEnd]) {
		winEnd++
	}

	return contextWindow{
		text:  doc[winStart:winEnd],
		start: rawStart - winStart,
		end:   rawEnd - winStart,
	}, nil
}
