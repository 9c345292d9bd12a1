package imaging

// ComplexLayout is the N-source pipeline (C6): capture-all -> per-element
// scale -> clear output -> blit elements.
//
// Grounded on original_source/scff_dsf/scff_imaging/complex_layout.cc:
// elements scale in reverse index order for cache locality, the output is
// cleared once per frame, then elements are blitted in ascending index
// order so later elements overwrite earlier ones where bounds overlap.
type ComplexLayout struct {
	state processorState

	elementCount int
	parameters   [MaxProcessorSize]LayoutParameter

	newCap    NewCaptureFunc
	newScaler NewScalerFunc

	output *Image

	captured  [MaxProcessorSize]*Image
	converted [MaxProcessorSize]*Image
	scale     [MaxProcessorSize]Scaler
	elementX  [MaxProcessorSize]int
	elementY  [MaxProcessorSize]int

	capture Capture
}

// NewComplexLayout returns an uninitialized complex layout for the given
// elements.
func NewComplexLayout(elementCount int, parameters [MaxProcessorSize]LayoutParameter, newCap NewCaptureFunc, newScaler NewScalerFunc) *ComplexLayout {
	return &ComplexLayout{
		state:        newProcessorState(),
		elementCount: elementCount,
		parameters:   parameters,
		newCap:       newCap,
		newScaler:    newScaler,
	}
}

// initElement validates element i's bound rectangle, computes its virtual
// padding and draw origin, and builds its capture/converted images and
// scaler.
func (c *ComplexLayout) initElement(i int) ErrorCode {
	p := c.parameters[i]

	if !contains(c.output.Width(), c.output.Height(), p.BoundX, p.BoundY, p.BoundWidth, p.BoundHeight) {
		return ErrBound
	}

	left, right, top, bottom := paddingPolicy(
		p.BoundWidth, p.BoundHeight,
		p.ClippingWidth, p.ClippingHeight,
		p.Stretch, p.KeepAspectRatio,
	)

	c.elementX[i] = p.BoundX + left
	c.elementY[i] = p.BoundY + top

	elementWidth := p.BoundWidth - left - right
	elementHeight := p.BoundHeight - top - bottom

	c.captured[i] = NewImage()
	if code := c.captured[i].Create(RGB0, p.ClippingWidth, p.ClippingHeight, !c.output.Topdown()); code != NoError {
		return code
	}

	c.converted[i] = NewImage()
	if code := c.converted[i].Create(c.output.PixelFormat(), elementWidth, elementHeight, c.output.Topdown()); code != NoError {
		return code
	}

	scaler := c.newScaler()
	if code := scaler.Init(c.captured[i], c.converted[i], p.SwscaleConfig); code != NoError {
		return code
	}
	c.scale[i] = scaler

	return NoError
}

// Init validates the output format is planar, then initializes every
// element and the shared multi-region capture.
func (c *ComplexLayout) Init(output *Image) ErrorCode {
	c.output = output

	if !output.PixelFormat().Planar() {
		return c.state.errorOccurred(ErrInvalidPixelFormat)
	}

	for i := 0; i < c.elementCount; i++ {
		if code := c.initElement(i); code != NoError {
			return c.state.errorOccurred(code)
		}
	}

	dst := make([]*Image, c.elementCount)
	params := make([]LayoutParameter, c.elementCount)
	for i := 0; i < c.elementCount; i++ {
		dst[i] = c.captured[i]
		params[i] = c.parameters[i]
	}

	cap := c.newCap(!output.Topdown(), params, dst)
	if code := cap.Init(); code != NoError {
		return c.state.errorOccurred(code)
	}
	c.capture = cap

	return c.state.initDone()
}

// Run captures all sources, scales elements in reverse index order, clears
// the output, then blits elements in ascending index order.
func (c *ComplexLayout) Run() ErrorCode {
	if !c.state.isReady() {
		return c.state.currentError()
	}

	if code := c.capture.Run(); code != NoError {
		return c.state.errorOccurred(code)
	}

	for i := c.elementCount - 1; i >= 0; i-- {
		if code := c.scale[i].Run(); code != NoError {
			return c.state.errorOccurred(code)
		}
	}

	fillRectangle(c.output, 0, 0, c.output.Width(), c.output.Height())

	for i := 0; i < c.elementCount; i++ {
		w := c.converted[i].Width()
		h := c.converted[i].Height()
		copyRectangle(c.output, c.converted[i], c.elementX[i], c.elementY[i], 0, 0, w, h)
	}

	return NoError
}

// SwapOutputImage changes only the final blit target; every element
// scaler's destination is unchanged (elements scale into their own
// converted_i buffers).
func (c *ComplexLayout) SwapOutputImage(output *Image) {
	c.output = output
}

func (c *ComplexLayout) CurrentError() ErrorCode { return c.state.currentError() }

// Close releases every owned processor and intermediate image.
func (c *ComplexLayout) Close() {
	if c.capture != nil {
		c.capture.Close()
	}
	for i := 0; i < c.elementCount; i++ {
		if c.scale[i] != nil {
			c.scale[i].Close()
		}
		if c.captured[i] != nil {
			c.captured[i].Destroy()
		}
		if c.converted[i] != nil {
			c.converted[i].Destroy()
		}
	}
}
