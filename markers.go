package mdcite

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Marker element ids. The screenshot layer finds these two elements by id
// and builds a DOM range between them, so the passage's position survives
// the markdown-to-HTML transform even when the transform splits or rewraps
// the text itself.
const (
	markerStartID = "mdcite-start"
	markerEndID   = "mdcite-end"
)

// markerStart and markerEnd are zero-width inline elements. They must be
// plain enough to pass through goldmark untouched as raw inline HTML.
const (
	markerStart = `<span id="` + markerStartID + `"></span>`
	markerEnd   = `<span id="` + markerEndID + `"></span>`
)

// injectMarkers wraps the [start, end) span of the markdown window with the
// start and end marker elements. Offsets outside the window are clamped.
func injectMarkers(window string, start, end int) string {
	start = max(0, min(start, len(window)))
	end = max(start, min(end, len(window)))

	return window[:start] + markerStart + window[start:end] + markerEnd + window[end:]
}

// pageTemplate wraps goldmark's fragment output in a complete HTML5
// document sized to a single A4 page at 96 DPI, matching the default
// browser viewport so one extraction renders on one page.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  line-height: 1.6;
  width: 794px;
  min-height: 1123px;
  margin: 0;
  padding: 40px;
  box-sizing: border-box;
  background: white;
}
h1, h2, h3, h4, h5, h6 { color: #333; }
code { background-color: #f4f4f4; padding: 2px 4px; border-radius: 3px; }
pre { background-color: #f4f4f4; padding: 10px; border-radius: 5px; overflow-x: auto; }
</style>
</head>
<body>
%s
</body>
</html>`

// htmlConverter abstracts Markdown to HTML conversion.
type htmlConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// goldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type goldmarkConverter struct {
	md goldmark.Markdown
}

// newGoldmarkConverter creates a goldmarkConverter with GFM extensions.
// WithUnsafe is required: the marker spans are raw inline HTML and must
// reach the rendered page unescaped with their ids intact. Only our own
// markers are injected, never caller-supplied HTML.
func newGoldmarkConverter() *goldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),  // Self-closing tags
			html.WithUnsafe(), // Pass marker spans through
		),
	)
	return &goldmarkConverter{md: md}
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *goldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(pageTemplate, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
