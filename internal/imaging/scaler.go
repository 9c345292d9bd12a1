package imaging

// Scaler wraps the external scale / pixel-format-conversion primitive,
// bound to a fixed input/output image pair (C2). It is stateless beyond
// that binding: Run performs one synchronous conversion and buffers
// nothing between calls.
type Scaler interface {
	// Init prepares a conversion context for input's and output's exact
	// dimensions and formats. Fails if either image is empty or the
	// format pair is unsupported.
	Init(input, output *Image, config SwscaleConfig) ErrorCode
	// Run performs one synchronous conversion from input to output.
	Run() ErrorCode
	// Rebind swaps the bound output image for one of identical format and
	// dimensions, without rebuilding the conversion context. Used when a
	// layout's final stage writes directly to the engine's output image
	// and that image alternates between front and back buffers each frame.
	Rebind(output *Image)
	CurrentError() ErrorCode
	// Close releases any conversion context held by the scaler.
	Close()
}

// NewScalerFunc constructs a fresh, uninitialized Scaler. Layouts take one
// of these as a dependency instead of importing a concrete backend
// directly, so the imaging package stays free of any scale-library import
// (avoiding an import cycle with internal/avscale, which imports imaging
// for the Image type) and stays testable with a fake.
type NewScalerFunc func() Scaler
