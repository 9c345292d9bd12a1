package imaging

import "fmt"

// ErrorCode identifies why a processor latched into the Error state.
type ErrorCode int

const (
	// NoError indicates the processor is healthy.
	NoError ErrorCode = iota
	// ErrUninitialized is the sentinel "no error yet" code for a layout
	// that has never had a successful Init.
	ErrUninitialized
	// ErrOutOfMemory signals a buffer allocation failure.
	ErrOutOfMemory
	// ErrFillFailure signals that plane pointers/strides could not be
	// derived for a created Image.
	ErrFillFailure
	// ErrScalerUnsupportedFormat signals an unsupported src/dst format pair.
	ErrScalerUnsupportedFormat
	// ErrScalerRun signals a synchronous conversion failure.
	ErrScalerRun
	// ErrCapture signals a screen-capture failure.
	ErrCapture
	// ErrInvalidPixelFormat signals a layout precondition violation (complex
	// layout requires a planar output format).
	ErrInvalidPixelFormat
	// ErrBound signals an element bound rectangle outside the output image.
	ErrBound
	// ErrPaddingGeometry signals an inner/outer size mismatch at Padding Init.
	ErrPaddingGeometry
	// ErrEngineFatal names an unrecoverable engine-level failure. No code
	// path in this package returns it: Engine.Init latches the failing
	// step's own code instead (e.g. ErrOutOfMemory from an image Create).
	ErrEngineFatal
	// ErrBufferTooSmall signals that a CopyFrontImage destination buffer is
	// smaller than the output image's canonical size.
	ErrBufferTooSmall
)

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "no_error"
	case ErrUninitialized:
		return "uninitialized"
	case ErrOutOfMemory:
		return "out_of_memory"
	case ErrFillFailure:
		return "fill_failure"
	case ErrScalerUnsupportedFormat:
		return "scaler_unsupported_format"
	case ErrScalerRun:
		return "scaler_run_failure"
	case ErrCapture:
		return "capture_failure"
	case ErrInvalidPixelFormat:
		return "invalid_pixel_format"
	case ErrBound:
		return "bound_error"
	case ErrPaddingGeometry:
		return "padding_geometry_error"
	case ErrEngineFatal:
		return "engine_fatal"
	case ErrBufferTooSmall:
		return "buffer_too_small"
	default:
		return fmt.Sprintf("error_code(%d)", int(e))
	}
}

func (e ErrorCode) Error() string { return e.String() }

// processorState is the shared Uninitialized -> Ready -> Error latch used
// by every processor (Image, Scaler, Padding, Capture, Layout). Once an
// error is recorded, it is never overwritten: the only reset is
// destroy-and-recreate.
type processorState struct {
	ready bool
	err   ErrorCode
}

func newProcessorState() processorState {
	return processorState{err: ErrUninitialized}
}

// initDone latches the Ready state and clears the error. Returns NoError.
func (s *processorState) initDone() ErrorCode {
	s.ready = true
	s.err = NoError
	return NoError
}

// errorOccurred latches the given error unless one is already latched.
func (s *processorState) errorOccurred(code ErrorCode) ErrorCode {
	if s.err == NoError || s.err == ErrUninitialized {
		s.err = code
		s.ready = false
	}
	return s.err
}

// currentError returns the latched code, which is ErrUninitialized before
// the first successful Init, NoError while Ready, or the first error code
// recorded by errorOccurred.
func (s *processorState) currentError() ErrorCode {
	return s.err
}

// isReady reports whether Init has completed successfully and no error has
// latched since.
func (s *processorState) isReady() bool {
	return s.ready && s.err == NoError
}
