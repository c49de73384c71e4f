package mdcite

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/kweiss/go-mdcite/internal/fileutil"
)

// screenshotRenderer abstracts headless rendering to allow different
// backends and browserless tests.
type screenshotRenderer interface {
	// ScreenshotWithBox renders htmlContent, resolves the marker pair into
	// a pixel rectangle, and captures a full-page PNG screenshot.
	ScreenshotWithBox(ctx context.Context, htmlContent string) ([]byte, Box, error)
	Close() error
}

// Compile-time interface check
var _ screenshotRenderer = (*rodRenderer)(nil)

// Bounding-box retry policy. Layout can still be settling right after the
// load event, so a zero-area rect is retried a few times before giving up.
const (
	boxAttempts   = 3
	boxRetryDelay = 500 * time.Millisecond
)

// boundingBoxJS locates the two marker elements, builds a DOM range
// spanning between them, and returns the range's rectangle in page-absolute
// coordinates. Returns null when either marker is missing.
const boundingBoxJS = `() => {
	const start = document.getElementById('` + markerStartID + `');
	const end = document.getElementById('` + markerEndID + `');
	if (!start || !end) {
		return null;
	}
	const range = document.createRange();
	range.setStartAfter(start);
	range.setEndBefore(end);
	const rect = range.getBoundingClientRect();
	return {
		left: rect.left + window.scrollX,
		top: rect.top + window.scrollY,
		width: rect.width,
		height: rect.height,
	};
}`

// rodRenderer implements screenshotRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser  *rod.Browser
	timeout  time.Duration
	viewport Viewport
}

// newRodRenderer creates a rodRenderer with the given timeout and viewport.
func newRodRenderer(timeout time.Duration, viewport Viewport) *rodRenderer {
	return &rodRenderer{timeout: timeout, viewport: viewport}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	// Configure launcher
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// ScreenshotWithBox writes htmlContent to a temp file, opens it in headless
// Chrome, resolves the marker range into a rectangle, and captures a
// full-page PNG. The temp file is removed on every exit path.
func (r *rodRenderer) ScreenshotWithBox(ctx context.Context, htmlContent string) ([]byte, Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, Box{}, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, Box{}, err
	}
	defer cleanup()

	if err := r.ensureBrowser(); err != nil {
		return nil, Box{}, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, Box{}, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.viewport.Width,
		Height:            r.viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, Box{}, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, Box{}, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, Box{}, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	box, err := r.resolveBox(ctx, page)
	if err != nil {
		return nil, Box{}, err
	}

	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, Box{}, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	if len(shot) == 0 {
		return nil, Box{}, fmt.Errorf("%w: empty screenshot", ErrScreenshot)
	}

	return shot, box, nil
}

// resolveBox evaluates the marker-range script, retrying while layout
// settles. Fails with ErrNoBoundingBox when no positive-area rectangle is
// obtained within the attempt budget.
func (r *rodRenderer) resolveBox(ctx context.Context, page *rod.Page) (Box, error) {
	var lastErr error

	for attempt := 0; attempt < boxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Box{}, ctx.Err()
			case <-time.After(boxRetryDelay):
			}
		}

		obj, err := page.Eval(boundingBoxJS)
		if err != nil {
			lastErr = err
			continue
		}

		box, ok := boxFromRect(obj.Value)
		if !ok {
			lastErr = fmt.Errorf("markers missing or zero-area rect")
			continue
		}
		return box, nil
	}

	return Box{}, fmt.Errorf("%w after %d attempts: %v", ErrNoBoundingBox, boxAttempts, lastErr)
}

// boxFromRect converts the script's rect object into a Box.
// Reports false for null results and non-positive dimensions.
func boxFromRect(v gson.JSON) (Box, bool) {
	if v.Nil() {
		return Box{}, false
	}

	left := v.Get("left").Num()
	top := v.Get("top").Num()
	width := v.Get("width").Num()
	height := v.Get("height").Num()

	if width <= 0 || height <= 0 {
		return Box{}, false
	}

	return Box{
		Left:   int(left),
		Top:    int(top),
		Right:  int(left + width),
		Bottom: int(top + height),
	}, true
}
