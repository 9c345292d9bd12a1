package imaging

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/myankochan/scff-imaging-core/internal/logger"
)

// imageIndex names which of the engine's two output buffers was most
// recently completed by the worker.
type imageIndex int

const (
	imageIndexFront imageIndex = iota
	imageIndexBack
)

// Engine is the top-level imaging component (C7): a worker goroutine runs
// a capture/scale/compose layout at a fixed rate into one of two
// alternating output buffers, while CopyFrontImage lets a consumer pull
// out whichever buffer was completed last, or a splash frame if the
// layout is unconfigured or errored.
//
// Grounded on original_source/scff_dsf/scff_imaging/engine.{h,cc}. The
// original's CAMThread message-pump (GetRequest/CallWorker/Reply) is
// replaced by mailbox, a single-slot rendezvous channel pair; the
// Stop-then-action-then-Run triple dispatched for every layout change in
// the original collapses into one blocking mailbox.send per change, since
// a Go goroutine can pause its own loop and resume it in place without a
// separate thread-control protocol.
type Engine struct {
	state processorState // engine's own construction-level latch

	outputFormat  PixelFormat
	outputWidth   int
	outputHeight  int
	outputFPS     float64
	outputTopdown bool

	newCap    NewCaptureFunc
	newScaler NewScalerFunc

	front  *Image
	back   *Image
	splash *Image

	mailbox *mailbox
	stopCh  chan struct{}
	stopped chan struct{}

	// mu guards every field the worker goroutine and a calling controller
	// goroutine can touch concurrently: layoutState, elementCount,
	// parameters, and lastUpdateImage.
	mu              sync.Mutex
	layout          Layout
	layoutState     processorState
	elementCount    int
	parameters      [MaxProcessorSize]LayoutParameter
	lastUpdateImage imageIndex

	log *zerolog.Logger
}

// NewEngine returns an uninitialized Engine producing outputWidth x
// outputHeight frames of outputFormat at outputFPS, using newCap/newScaler
// as the capture and scale backends for any layout it builds. outputTopdown
// must match the memory-row order the consumer expects for outputFormat.
func NewEngine(
	outputFormat PixelFormat,
	outputWidth, outputHeight int,
	outputFPS float64,
	outputTopdown bool,
	newCap NewCaptureFunc,
	newScaler NewScalerFunc,
) *Engine {
	return &Engine{
		state:           newProcessorState(),
		outputFormat:    outputFormat,
		outputWidth:     outputWidth,
		outputHeight:    outputHeight,
		outputFPS:       outputFPS,
		outputTopdown:   outputTopdown,
		newCap:          newCap,
		newScaler:       newScaler,
		front:           NewImage(),
		back:            NewImage(),
		splash:          NewImage(),
		mailbox:         newMailbox(),
		stopCh:          make(chan struct{}),
		stopped:         make(chan struct{}),
		layoutState:     newProcessorState(),
		lastUpdateImage: imageIndexFront,
		log:             logger.WithComponent("engine"),
	}
}

// Init allocates the front, back, and splash buffers, renders the splash
// frame once, and starts the worker goroutine with an empty (Uninitialized)
// layout.
func (e *Engine) Init() ErrorCode {
	if code := e.front.Create(e.outputFormat, e.outputWidth, e.outputHeight, e.outputTopdown); code != NoError {
		return e.state.errorOccurred(code)
	}
	if code := e.back.Create(e.outputFormat, e.outputWidth, e.outputHeight, e.outputTopdown); code != NoError {
		return e.state.errorOccurred(code)
	}
	if code := e.splash.Create(e.outputFormat, e.outputWidth, e.outputHeight, e.outputTopdown); code != NoError {
		return e.state.errorOccurred(code)
	}
	if code := renderSplash(e.splash); code != NoError {
		return e.state.errorOccurred(code)
	}

	go e.runLoop()
	e.mailbox.send(request{tag: requestResetLayout})

	e.log.Info().
		Str("format", e.outputFormat.String()).
		Int("width", e.outputWidth).
		Int("height", e.outputHeight).
		Float64("fps", e.outputFPS).
		Msg("engine initialized")

	return e.state.initDone()
}

// Close stops the worker goroutine and releases every owned resource.
func (e *Engine) Close() {
	if !e.state.isReady() {
		return
	}
	close(e.stopCh)
	<-e.stopped

	e.mu.Lock()
	if e.layout != nil {
		e.layout.Close()
	}
	e.mu.Unlock()

	e.front.Destroy()
	e.back.Destroy()
	e.splash.Destroy()
}

// ResetLayout tears down the active layout, leaving the engine serving
// splash frames until a new layout is set.
func (e *Engine) ResetLayout() ErrorCode {
	if code := e.state.currentError(); code != NoError && code != ErrUninitialized {
		return code
	}
	e.mailbox.send(request{tag: requestResetLayout})
	return e.state.currentError()
}

// SetNativeLayout rebuilds the active layout as a NativeLayout from the
// LayoutParameter most recently staged at index 0 by SetLayoutParameters.
func (e *Engine) SetNativeLayout() ErrorCode {
	if code := e.state.currentError(); code != NoError && code != ErrUninitialized {
		return code
	}
	e.mailbox.send(request{tag: requestSetNativeLayout})
	return e.state.currentError()
}

// SetComplexLayout rebuilds the active layout as a ComplexLayout from the
// element count and parameters most recently staged by SetLayoutParameters.
func (e *Engine) SetComplexLayout() ErrorCode {
	if code := e.state.currentError(); code != NoError && code != ErrUninitialized {
		return code
	}
	e.mailbox.send(request{tag: requestSetComplexLayout})
	return e.state.currentError()
}

// SetLayoutParameters stages elementCount and parameters for the next
// SetNativeLayout/SetComplexLayout call, bypassing the worker entirely.
// When the engine's output is topdown, each BoundY is replaced by
// outputHeight - (BoundY + BoundHeight), mirroring the bound rectangle
// vertically; otherwise the parameters are staged unchanged.
func (e *Engine) SetLayoutParameters(elementCount int, parameters [MaxProcessorSize]LayoutParameter) ErrorCode {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.elementCount = elementCount
	for i := 0; i < MaxProcessorSize; i++ {
		p := parameters[i]
		if e.outputTopdown {
			p.BoundY = e.outputHeight - (p.BoundY + p.BoundHeight)
		}
		e.parameters[i] = p
	}
	return NoError
}

// CopyFrontImage writes the engine's most recently completed frame into
// dst, which must be at least CanonicalSize(outputFormat, outputWidth,
// outputHeight) bytes. If the engine itself is unusable, dst is zeroed. If
// the layout is unconfigured or has errored, the splash frame is copied
// instead. An undersized dst gets ErrBufferTooSmall; otherwise the returned
// error is the engine's own top-level state, never the layout's.
func (e *Engine) CopyFrontImage(dst []byte) ErrorCode {
	if code := e.state.currentError(); code != NoError && code != ErrUninitialized {
		for i := range dst {
			dst[i] = 0
		}
		return code
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.layoutState.currentError() != NoError {
		if len(dst) < e.splash.Size() {
			return ErrBufferTooSmall
		}
		copy(dst, e.splash.Raw())
		return e.state.currentError()
	}

	src := e.front
	if e.lastUpdateImage == imageIndexBack {
		src = e.back
	}
	if len(dst) < src.Size() {
		return ErrBufferTooSmall
	}
	copy(dst, src.Raw())
	return e.state.currentError()
}

// runLoop is the worker goroutine body: service one pending mailbox
// request (if any), else advance the active layout by one frame, paced to
// outputFPS with a logged drop-frame whenever a frame overruns its slot.
//
// Grounded on Engine::DoLoop/ThreadProc: the original's non-blocking
// CheckRequest-then-Update spin loop, clocked against a fixed output
// interval.
func (e *Engine) runLoop() {
	defer close(e.stopped)

	interval := time.Duration(float64(time.Second) / e.outputFPS)
	lastUpdate := time.Now()

	for {
		select {
		case <-e.stopCh:
			return
		case req := <-e.mailbox.slot:
			e.handleRequest(req)
			e.mailbox.acknowledge()
			lastUpdate = time.Now()
			continue
		default:
		}

		e.update()

		elapsed := time.Since(lastUpdate)
		if delta := interval - elapsed; delta > 0 {
			time.Sleep(delta)
		} else {
			e.log.Debug().Dur("over_by", elapsed-interval).Msg("frame dropped")
		}
		lastUpdate = time.Now()
	}
}

// handleRequest applies a mailbox request on the worker goroutine.
func (e *Engine) handleRequest(req request) {
	switch req.tag {
	case requestResetLayout:
		e.doResetLayout()
	case requestSetNativeLayout:
		e.doSetNativeLayout()
	case requestSetComplexLayout:
		e.doSetComplexLayout()
	}
}

// doResetLayout closes and clears the active layout, returning to the
// Uninitialized layout state (splash served) until the next SetXLayout.
func (e *Engine) doResetLayout() {
	e.mu.Lock()
	layout := e.layout
	e.layout = nil
	e.layoutState = newProcessorState()
	e.mu.Unlock()

	if layout != nil {
		layout.Close()
	}
}

// doSetNativeLayout rebuilds the active layout as a NativeLayout from the
// parameter staged at index 0.
func (e *Engine) doSetNativeLayout() {
	e.doResetLayout()

	e.mu.Lock()
	parameter := e.parameters[0]
	e.mu.Unlock()

	layout := NewNativeLayout(parameter, e.newCap, e.newScaler)
	code := layout.Init(e.front)

	e.mu.Lock()
	defer e.mu.Unlock()
	if code != NoError {
		layout.Close()
		e.layoutState.errorOccurred(code)
		e.log.Warn().Stringer("code", code).Msg("native layout init failed")
		return
	}
	e.layout = layout
	e.layoutState.initDone()
	fillRectangle(e.front, 0, 0, e.front.Width(), e.front.Height())
	fillRectangle(e.back, 0, 0, e.back.Width(), e.back.Height())
}

// doSetComplexLayout rebuilds the active layout as a ComplexLayout from
// the staged element count and parameters.
func (e *Engine) doSetComplexLayout() {
	e.doResetLayout()

	e.mu.Lock()
	count := e.elementCount
	parameters := e.parameters
	e.mu.Unlock()

	layout := NewComplexLayout(count, parameters, e.newCap, e.newScaler)
	code := layout.Init(e.front)

	e.mu.Lock()
	defer e.mu.Unlock()
	if code != NoError {
		layout.Close()
		e.layoutState.errorOccurred(code)
		e.log.Warn().Stringer("code", code).Msg("complex layout init failed")
		return
	}
	e.layout = layout
	e.layoutState.initDone()
	fillRectangle(e.front, 0, 0, e.front.Width(), e.front.Height())
	fillRectangle(e.back, 0, 0, e.back.Width(), e.back.Height())
}

// update advances the active layout by one frame into whichever buffer was
// not most recently completed, then flips lastUpdateImage.
func (e *Engine) update() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.layoutState.currentError() != NoError {
		return
	}
	target := e.back
	next := imageIndexBack
	if e.lastUpdateImage == imageIndexBack {
		target = e.front
		next = imageIndexFront
	}

	e.layout.SwapOutputImage(target)
	code := e.layout.Run()
	if code != NoError {
		e.layoutState.errorOccurred(code)
		e.log.Warn().Stringer("code", code).Msg("layout run failed")
		return
	}
	e.lastUpdateImage = next
}
