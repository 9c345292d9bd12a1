package imaging

// NativeLayout is the single-source pipeline (C5): capture -> scale ->
// optional pad -> output.
//
// Grounded on original_source/scff-dsf/scff-imaging/native-layout.cc:
// the padding image is allocated, and the padding step run, only when
// canUsePadding() is true; otherwise the scaler writes directly into the
// output image and the padding stage is skipped entirely.
type NativeLayout struct {
	state processorState

	parameter LayoutParameter
	newCap    NewCaptureFunc
	newScaler NewScalerFunc

	output *Image

	captured  *Image
	converted *Image

	capture Capture
	scale   Scaler
	padding *Padding

	usePadding bool
}

// NewNativeLayout returns an uninitialized native layout for the given
// parameter, using the provided capture/scaler backends.
func NewNativeLayout(parameter LayoutParameter, newCap NewCaptureFunc, newScaler NewScalerFunc) *NativeLayout {
	return &NativeLayout{
		state:     newProcessorState(),
		parameter: parameter,
		newCap:    newCap,
		newScaler: newScaler,
	}
}

// canUsePadding reports whether the padding blitter is usable for the
// output's pixel format. Only planar formats are supported by the
// draw-utils blitter; in particular UYVY output silently ignores
// KeepAspectRatio (spec.md §9, open question 1: this is intentional,
// driven by the blitter's planar-only limitation).
func (n *NativeLayout) canUsePadding() bool {
	return n.output.PixelFormat().Planar()
}

// Init builds and initializes the capture -> scale [-> pad] pipeline
// against output, per spec.md §4.5.
func (n *NativeLayout) Init(output *Image) ErrorCode {
	n.output = output
	n.usePadding = n.canUsePadding()

	capturedW := n.parameter.ClippingWidth
	capturedH := n.parameter.ClippingHeight

	convertedW := output.Width()
	convertedH := output.Height()
	var left, right, top, bottom int

	if n.usePadding {
		left, right, top, bottom = paddingPolicy(
			output.Width(), output.Height(),
			capturedW, capturedH,
			n.parameter.Stretch, n.parameter.KeepAspectRatio,
		)
		convertedW -= left + right
		convertedH -= top + bottom
	}

	n.captured = NewImage()
	if code := n.captured.Create(RGB0, capturedW, capturedH, !output.Topdown()); code != NoError {
		return n.state.errorOccurred(code)
	}

	if n.usePadding {
		n.converted = NewImage()
		if code := n.converted.Create(output.PixelFormat(), convertedW, convertedH, output.Topdown()); code != NoError {
			return n.state.errorOccurred(code)
		}
	}

	cap := n.newCap(!output.Topdown(), []LayoutParameter{n.parameter}, []*Image{n.captured})
	if code := cap.Init(); code != NoError {
		return n.state.errorOccurred(code)
	}
	n.capture = cap

	scaleDst := n.output
	if n.usePadding {
		scaleDst = n.converted
	}
	scaler := n.newScaler()
	if code := scaler.Init(n.captured, scaleDst, n.parameter.SwscaleConfig); code != NoError {
		return n.state.errorOccurred(code)
	}
	n.scale = scaler

	if n.usePadding {
		padding := NewPadding(left, right, top, bottom)
		if code := padding.Init(n.converted, n.output); code != NoError {
			return n.state.errorOccurred(code)
		}
		n.padding = padding
	}

	return n.state.initDone()
}

// Run invokes capture, scale, and (if used) padding in order. Any
// operator error latches as the layout's error; once errored, Run is a
// no-op returning that error.
func (n *NativeLayout) Run() ErrorCode {
	if !n.state.isReady() {
		return n.state.currentError()
	}

	if code := n.capture.Run(); code != NoError {
		return n.state.errorOccurred(code)
	}
	if code := n.scale.Run(); code != NoError {
		return n.state.errorOccurred(code)
	}
	if n.usePadding {
		if code := n.padding.Run(); code != NoError {
			return n.state.errorOccurred(code)
		}
	}

	return NoError
}

// SwapOutputImage rebinds the final stage (padding if used, else the
// scaler) to a new output image without re-running Init.
func (n *NativeLayout) SwapOutputImage(output *Image) {
	n.output = output
	if n.usePadding {
		n.padding.output = output
	} else {
		n.scale.Rebind(output)
	}
}

func (n *NativeLayout) CurrentError() ErrorCode { return n.state.currentError() }

// Close releases the layout's owned processors and intermediate images,
// in processor-then-image order.
func (n *NativeLayout) Close() {
	if n.capture != nil {
		n.capture.Close()
	}
	if n.scale != nil {
		n.scale.Close()
	}
	if n.padding != nil {
		n.padding.Close()
	}
	if n.captured != nil {
		n.captured.Destroy()
	}
	if n.converted != nil {
		n.converted.Destroy()
	}
}
