package mdcite

import (
	"fmt"
	"time"
)

// Viewport bounds in pixels.
const (
	MinViewportDim = 100
	MaxViewportDim = 10000

	// A4 at 96 DPI.
	DefaultViewportWidth  = 794
	DefaultViewportHeight = 1123
)

// Context budget defaults and bounds.
const (
	// DefaultContextChars is the character budget added on each side of a
	// located passage when building the render window.
	DefaultContextChars = 300

	// DefaultContextLines is the line budget added on each side when the
	// line-based context path is used.
	DefaultContextLines = 5

	MaxContextChars = 100000
	MaxContextLines = 1000
)

// Viewport configures the headless browser page dimensions.
type Viewport struct {
	Width  int
	Height int
}

// DefaultViewport returns A4-at-96-DPI page dimensions.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
}

// Validate checks that viewport dimensions are within bounds.
func (v Viewport) Validate() error {
	if v.Width < MinViewportDim || v.Width > MaxViewportDim ||
		v.Height < MinViewportDim || v.Height > MaxViewportDim {
		return fmt.Errorf("%w: %dx%d (dimensions must be between %d and %d)",
			ErrInvalidViewport, v.Width, v.Height, MinViewportDim, MaxViewportDim)
	}
	return nil
}

// Input contains extraction parameters.
type Input struct {
	DocumentPath string   // Path to the markdown file (required)
	Passage      string   // Text to locate and highlight (required)
	OutputPath   string   // Output image path (optional, empty = temp file)
	Score        *float64 // Optional score drawn next to the bounding box
}

// Box is a pixel rectangle measured on a specific screenshot.
// Coordinates are page-absolute: valid regardless of scroll position.
type Box struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.Bottom - b.Top }

// Valid reports whether the box has positive area.
func (b Box) Valid() bool { return b.Width() > 0 && b.Height() > 0 }

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout      time.Duration
	contextChars int
	contextLines int
	viewport     Viewport
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdcite: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithContextChars sets the character budget added on each side of a
// located passage. Panics if n is out of range.
func WithContextChars(n int) Option {
	if n < 0 || n > MaxContextChars {
		panic("mdcite: " + ErrInvalidContextChars.Error())
	}
	return func(s *Service) {
		s.cfg.contextChars = n
	}
}

// WithContextLines sets the line budget for the line-based context path.
// Panics if n is out of range.
func WithContextLines(n int) Option {
	if n < 0 || n > MaxContextLines {
		panic("mdcite: " + ErrInvalidContextLines.Error())
	}
	return func(s *Service) {
		s.cfg.contextLines = n
	}
}

// WithViewport sets the browser page dimensions.
// Panics if the viewport is invalid.
func WithViewport(v Viewport) Option {
	if err := v.Validate(); err != nil {
		panic("mdcite: " + err.Error())
	}
	return func(s *Service) {
		s.cfg.viewport = v
	}
}
