package imaging

// Test doubles for Capture and Scaler, standing in for x11capture.Capture
// and avscale.Scaler so layout/engine orchestration can be exercised
// without an X server or libswscale.

type fakeCapture struct {
	state processorState

	dst      []*Image
	fillByte byte

	initErr ErrorCode
	runErr  ErrorCode

	closed bool
}

func newFakeCaptureFunc(fillByte byte, initErr, runErr ErrorCode) NewCaptureFunc {
	return func(flipVertical bool, params []LayoutParameter, dst []*Image) Capture {
		return &fakeCapture{
			state:    newProcessorState(),
			dst:      dst,
			fillByte: fillByte,
			initErr:  initErr,
			runErr:   runErr,
		}
	}
}

func (c *fakeCapture) Init() ErrorCode {
	if c.initErr != NoError {
		return c.state.errorOccurred(c.initErr)
	}
	return c.state.initDone()
}

func (c *fakeCapture) Run() ErrorCode {
	if !c.state.isReady() {
		return c.state.currentError()
	}
	if c.runErr != NoError {
		return c.state.errorOccurred(c.runErr)
	}
	for _, img := range c.dst {
		for i := range img.Raw() {
			img.Raw()[i] = c.fillByte
		}
	}
	return NoError
}

func (c *fakeCapture) CurrentError() ErrorCode { return c.state.currentError() }
func (c *fakeCapture) Close()                  { c.closed = true }

// fakeScaler ignores its bound input entirely and fills its output with a
// fixed byte on Run, so tests can tell which element/pipeline stage wrote
// the final output without needing real scale math.
type fakeScaler struct {
	state processorState

	output *Image

	fillByte byte
	initErr  ErrorCode
	runErr   ErrorCode

	rebindCount int
	closed      bool
}

// newFakeScalerFunc returns a NewScalerFunc that hands out scalers with
// fillByte taken from fills in call order, one per invocation. Pass a
// single-element slice to configure every call identically.
func newFakeScalerFunc(initErr, runErr ErrorCode, fills ...byte) NewScalerFunc {
	i := 0
	return func() Scaler {
		fill := fills[i%len(fills)]
		i++
		return &fakeScaler{
			state:    newProcessorState(),
			fillByte: fill,
			initErr:  initErr,
			runErr:   runErr,
		}
	}
}

func (s *fakeScaler) Init(input, output *Image, config SwscaleConfig) ErrorCode {
	if s.initErr != NoError {
		return s.state.errorOccurred(s.initErr)
	}
	s.output = output
	return s.state.initDone()
}

func (s *fakeScaler) Run() ErrorCode {
	if !s.state.isReady() {
		return s.state.currentError()
	}
	if s.runErr != NoError {
		return s.state.errorOccurred(s.runErr)
	}
	for i := range s.output.Raw() {
		s.output.Raw()[i] = s.fillByte
	}
	return NoError
}

func (s *fakeScaler) Rebind(output *Image) {
	s.output = output
	s.rebindCount++
}

func (s *fakeScaler) CurrentError() ErrorCode { return s.state.currentError() }
func (s *fakeScaler) Close()                  { s.closed = true }
