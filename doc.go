// Package mdcite locates a text passage inside a markdown document and
// produces a screenshot with a bounding box drawn around it, a visual
// citation showing where the passage sits in its source.
//
// # Quick Start
//
// Create a service, extract a highlight, and close when done:
//
//	svc := mdcite.New()
//	defer svc.Close()
//
//	path, err := svc.ExtractWithHighlight(ctx, mdcite.Input{
//	    DocumentPath: "report.md",
//	    Passage:      "important content to find",
//	    OutputPath:   "citation.png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Pipeline
//
// The extraction follows these stages:
//
//  1. Passage location by word anchors (first/last words of the passage,
//     matched against whitespace-normalized text, shortening from 10 down
//     to 4 words until one fits)
//  2. Offset mapping from normalized text back to the raw document
//  3. Context window extraction around the located span
//  4. Invisible marker injection and markdown-to-HTML conversion via
//     Goldmark (GFM, syntax highlighting)
//  5. Screenshot and marker-range measurement via headless Chrome (go-rod)
//  6. Bounding box and score drawing onto the PNG
//
// Matching is fuzzy: the passage may carry irregular whitespace,
// different casing, or miss markdown syntax present in the source, and the
// anchor bracket tolerates arbitrary content between the two ends.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := mdcite.New(
//	    mdcite.WithTimeout(2 * time.Minute),
//	    mdcite.WithContextChars(500),
//	    mdcite.WithViewport(mdcite.Viewport{Width: 1200, Height: 1600}),
//	)
//
// FindContext answers "where does this text occur" without rendering, and
// SearchAndHighlight renders the surroundings of a short free-text query
// instead of a known passage.
//
// For parallel extraction use ServicePool, which maintains one browser per
// service:
//
//	pool := mdcite.NewServicePool(mdcite.ResolvePoolSize(0))
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// # Requirements
//
// Rendering needs a Chromium-compatible browser; go-rod downloads one on
// first use, or set ROD_BROWSER_BIN to use a pre-installed binary.
package mdcite
