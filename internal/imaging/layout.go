package imaging

// MaxProcessorSize is the maximum number of layout parameters (sources)
// a single layout may be configured with.
const MaxProcessorSize = 8

// DesktopWindowHandle is the sentinel WindowHandle meaning "capture the
// desktop", carried over from the original engine's kWindowHandleDesktop.
const DesktopWindowHandle uint64 = 0

// SwscaleConfig is an opaque pass-through struct forwarded to the scaler.
// The imaging core never inspects its fields; it exists so a controller
// can tune scaler behavior (e.g. algorithm choice) per source.
type SwscaleConfig struct {
	// Flags carries scaler-implementation-specific flags, e.g. an
	// astiav.SoftwareScaleContextFlags bitmask for the avscale backend.
	Flags uint32
}

// LayoutParameter describes one capture source and its placement.
type LayoutParameter struct {
	// BoundX, BoundY, BoundWidth, BoundHeight place this source's
	// converted image within the output image, in output-image
	// coordinates. BoundY is normalized (memory order) by
	// Engine.SetLayoutParameters before it reaches a layout.
	BoundX, BoundY, BoundWidth, BoundHeight int

	// ClippingX, ClippingY, ClippingWidth, ClippingHeight describe the
	// source rectangle on the desktop, top-left origin. Must satisfy
	// ClippingWidth, ClippingHeight >= 1.
	ClippingX, ClippingY, ClippingWidth, ClippingHeight int

	// WindowHandle identifies the capture source. DesktopWindowHandle
	// means "capture the desktop".
	WindowHandle uint64

	Stretch           bool
	KeepAspectRatio   bool
	ShowCursor        bool
	ShowLayeredWindow bool

	SwscaleConfig SwscaleConfig
}

// Layout is the capability set shared by NativeLayout and ComplexLayout:
// the two-variant sum type described in spec.md's design notes.
type Layout interface {
	Init(output *Image) ErrorCode
	Run() ErrorCode
	// SwapOutputImage rebinds the layout's output target ahead of the next
	// Run, without re-running Init. Used by the engine to alternate
	// between front/back buffers each frame.
	SwapOutputImage(output *Image)
	CurrentError() ErrorCode
	Close()
}

// contains reports whether the rectangle (x,y,w,h) lies fully inside the
// (0,0,outerW,outerH) box.
func contains(outerW, outerH, x, y, w, h int) bool {
	return x >= 0 && y >= 0 && w >= 1 && h >= 1 &&
		x+w <= outerW && y+h <= outerH
}

// paddingPolicy computes the (left, right, top, bottom) padding needed to
// place an inner (w,h) box inside an outer (W,H) box per spec.md §4.3.
func paddingPolicy(outerW, outerH, innerW, innerH int, stretch, keepAspectRatio bool) (left, right, top, bottom int) {
	if !keepAspectRatio {
		return 0, 0, 0, 0
	}

	// Largest (w', h') preserving innerW/innerH that fits in (outerW, outerH),
	// and, unless stretch, also satisfies w' <= innerW && h' <= innerH.
	scale := minFloat(float64(outerW)/float64(innerW), float64(outerH)/float64(innerH))
	if !stretch && scale > 1 {
		scale = 1
	}

	w2 := int(float64(innerW) * scale)
	h2 := int(float64(innerH) * scale)
	if w2 < 1 {
		w2 = 1
	}
	if h2 < 1 {
		h2 = 1
	}

	padX := outerW - w2
	padY := outerH - h2
	left = padX / 2
	right = padX - left
	top = padY / 2
	bottom = padY - top
	return left, right, top, bottom
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
