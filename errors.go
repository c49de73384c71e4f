package mdcite

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document content cannot be empty")
	ErrEmptyPassage  = errors.New("passage cannot be empty")

	// Location errors.
	ErrPassageNotFound = errors.New("passage not found in document")
	ErrValidation      = errors.New("passage does not appear in document")

	// Rendering errors.
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("screenshot capture failed")
	ErrNoBoundingBox  = errors.New("no valid bounding box for passage")

	// Annotation errors.
	ErrImageDecode = errors.New("failed to decode screenshot image")
	ErrImageEncode = errors.New("failed to encode output image")
	ErrInvalidBox  = errors.New("bounding box must have positive area")

	// Option validation errors.
	ErrInvalidViewport     = errors.New("invalid viewport dimensions")
	ErrInvalidContextChars = errors.New("invalid context character budget")
	ErrInvalidContextLines = errors.New("invalid context line count")
)
