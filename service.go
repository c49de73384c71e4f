package mdcite

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kweiss/go-mdcite/internal/fileutil"
)

// Pre-render validation thresholds. Launching a browser for a passage that
// is not in the document at all is the expensive failure mode; a cheap word
// check aborts those calls first.
const (
	minSignificantWordLen = 4  // words shorter than this are ignored
	maxValidationWords    = 10 // words checked against the document
	minValidationMatches  = 3  // matches required to proceed
)

// searchContextLines is the line budget used by SearchAndHighlight, wider
// than the default because short queries benefit from more surroundings.
const searchContextLines = 10

// Service orchestrates the locate-render-annotate pipeline.
type Service struct {
	cfg       serviceConfig
	converter htmlConverter
	renderer  screenshotRenderer
	annotator boxAnnotator
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithViewport).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:      defaultTimeout,
			contextChars: DefaultContextChars,
			contextLines: DefaultContextLines,
			viewport:     DefaultViewport(),
		},
		converter: newGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create collaborators if not injected (e.g., by tests)
	if s.renderer == nil {
		s.renderer = newRodRenderer(s.cfg.timeout, s.cfg.viewport)
	}
	if s.annotator == nil {
		s.annotator = &pngAnnotator{}
	}

	return s
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// FindContext locates a free-text query in the document and returns the
// matching line plus contextLines lines on each side, without rendering.
// A contextLines value <= 0 uses the configured default.
func (s *Service) FindContext(documentPath, query string, contextLines int) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyPassage
	}

	doc, err := s.readDocument(documentPath)
	if err != nil {
		return "", err
	}

	if contextLines <= 0 {
		contextLines = s.cfg.contextLines
	}

	found, ok := findContext(doc, query, contextLines)
	if !ok {
		return "", fmt.Errorf("%w: query does not occur in document", ErrPassageNotFound)
	}
	return found, nil
}

// ExtractWithHighlight runs the full pipeline: locate the passage, render
// its context window to HTML with position markers, screenshot it in a
// headless browser, and write an image with a bounding box drawn around the
// passage. Returns the output image path.
//
// Fails fast with ErrValidation before rendering when the passage shares
// too few significant words with the document, and with ErrPassageNotFound
// when neither a start nor an end anchor can be matched.
func (s *Service) ExtractWithHighlight(ctx context.Context, input Input) (string, error) {
	if strings.TrimSpace(input.Passage) == "" {
		return "", ErrEmptyPassage
	}

	doc, err := s.readDocument(input.DocumentPath)
	if err != nil {
		return "", err
	}

	if err := validatePassage(doc, input.Passage); err != nil {
		return "", err
	}

	window, err := locatePassage(doc, input.Passage, s.cfg.contextChars)
	if err != nil {
		return "", err
	}

	return s.renderAndAnnotate(ctx, window, input.OutputPath, input.Score)
}

// SearchAndHighlight finds a short query's surroundings with the lenient
// line-based strategy and highlights them. Unlike ExtractWithHighlight it
// never fails on a weak match: at worst the whole document is rendered and
// the box covers the full excerpt.
func (s *Service) SearchAndHighlight(ctx context.Context, documentPath, query, outputPath string, score *float64) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyPassage
	}

	doc, err := s.readDocument(documentPath)
	if err != nil {
		return "", err
	}

	text, start, end := contextAroundWithSpan(doc, query, searchContextLines)
	window := contextWindow{text: text, start: start, end: end}

	return s.renderAndAnnotate(ctx, window, outputPath, score)
}

// renderAndAnnotate is the shared pipeline tail: marker injection, HTML
// conversion, browser screenshot, and box drawing. The intermediate
// screenshot lives in a temp file that is removed on every exit path.
func (s *Service) renderAndAnnotate(ctx context.Context, window contextWindow, outputPath string, score *float64) (string, error) {
	marked := injectMarkers(window.text, window.start, window.end)

	htmlContent, err := s.converter.ToHTML(ctx, marked)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	shot, box, err := s.renderer.ScreenshotWithBox(ctx, htmlContent)
	if err != nil {
		return "", fmt.Errorf("rendering passage: %w", err)
	}

	shotPath, cleanup, err := fileutil.WriteTempBytes(shot, "png")
	if err != nil {
		return "", err
	}
	defer cleanup()

	result, err := s.annotator.Annotate(shotPath, box, outputPath, score)
	if err != nil {
		return "", fmt.Errorf("annotating screenshot: %w", err)
	}
	return result, nil
}

// readDocument loads a markdown file and normalizes its line endings.
// All offsets downstream are relative to the normalized content.
func (s *Service) readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}

	content := normalizeLineEndings(string(data))
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyDocument
	}
	return content, nil
}

// validatePassage checks that enough of the passage's significant words
// occur in the document to make rendering worthwhile. Passages with fewer
// than minValidationMatches significant words carry too little signal to
// pre-check and pass through to anchor matching.
func validatePassage(doc, passage string) error {
	var significant []string
	for _, w := range strings.Fields(passage) {
		if len(w) >= minSignificantWordLen {
			significant = append(significant, strings.ToLower(w))
		}
	}
	if len(significant) < minValidationMatches {
		return nil
	}
	if len(significant) > maxValidationWords {
		significant = significant[:maxValidationWords]
	}

	normDoc := normalizeText(doc)
	found := 0
	for _, w := range significant {
		if strings.Contains(normDoc, w) {
			found++
		}
	}

	if found < minValidationMatches {
		return fmt.Errorf("%w: only %d of %d significant words found", ErrValidation, found, len(significant))
	}
	return nil
}
