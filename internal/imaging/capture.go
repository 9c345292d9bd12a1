package imaging

// Capture wraps the external OS screen-capture primitive (C4), bound at
// construction to a fixed set of destination buffers. Run captures all
// regions into their bound buffers synchronously; partial failure of any
// region yields a capture error and leaves buffer contents undefined.
type Capture interface {
	Init() ErrorCode
	Run() ErrorCode
	CurrentError() ErrorCode
	Close()
}

// NewCaptureFunc constructs a Capture bound to count regions described by
// params, writing into dst (len(dst) == len(params)), each of format RGB0
// matching the corresponding ClippingWidth x ClippingHeight. flipVertical
// is true iff the destination should be stored bottom-up, which the
// engine derives from the output pixel format's topdown flag.
type NewCaptureFunc func(flipVertical bool, params []LayoutParameter, dst []*Image) Capture
