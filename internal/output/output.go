// Package output turns the imaging core's frames into things a browser can
// display: an MJPEG HTTP stream today, with room for more Output
// implementations (X11 window, V4L2 virtual camera) the way the original
// package anticipated.
package output

import (
	"github.com/myankochan/scff-imaging-core/internal/imaging"
)

// Output defines the interface for frame output mechanisms.
// This allows us to swap between different output methods:
// - MJPEG HTTP stream
// - X11 window display
// - V4L2 virtual camera
// - etc.
type Output interface {
	// Start initializes the output mechanism
	Start() error

	// Stop cleanly shuts down the output
	Stop() error

	// WriteFrame sends a frame to the output, in the imaging core's own
	// canonical buffer layout; converting to a displayable form is each
	// Output's own concern.
	WriteFrame(frame *imaging.Image) error

	// Name returns a human-readable name for this output type
	Name() string

	// IsRunning returns true if the output is currently active
	IsRunning() bool
}

// Config holds common configuration for all output types
type Config struct {
	Width  int
	Height int
	FPS    int
}
