// Package avscale implements imaging.Scaler on top of libswscale via
// go-astiav.
package avscale

import (
	"github.com/asticode/go-astiav"
	"github.com/rs/zerolog"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/logger"
)

// Scaler binds one swscale conversion context to a fixed input/output
// image pair.
//
// Grounded on other_examples/xaionaro-go-avpipeline__scaler.go's Scaler
// interface (ScaleFrame(src, dst *astiav.Frame)) and
// original_source/.../native-layout.cc's single-call-per-frame Scale
// usage. astiav.Frame owns its own aligned buffers, so each Run copies
// the bound Image's planes in, scales, and copies the result back out;
// the two copies are plain stride-aware byte loops since swscale only
// understands its own Frame buffers, not arbitrary external strides.
type Scaler struct {
	state processorState

	ctx      *astiav.SoftwareScaleContext
	srcFrame *astiav.Frame
	dstFrame *astiav.Frame

	input  *imaging.Image
	output *imaging.Image

	log *zerolog.Logger
}

type processorState struct {
	ready bool
	err   imaging.ErrorCode
}

func newProcessorState() processorState { return processorState{err: imaging.ErrUninitialized} }

func (s *processorState) initDone() imaging.ErrorCode {
	s.ready = true
	s.err = imaging.NoError
	return imaging.NoError
}

func (s *processorState) errorOccurred(code imaging.ErrorCode) imaging.ErrorCode {
	if s.err == imaging.NoError || s.err == imaging.ErrUninitialized {
		s.err = code
		s.ready = false
	}
	return s.err
}

func (s *processorState) currentError() imaging.ErrorCode { return s.err }
func (s *processorState) isReady() bool                   { return s.ready && s.err == imaging.NoError }

// New returns an uninitialized Scaler.
func New() imaging.Scaler {
	return &Scaler{state: newProcessorState(), log: logger.WithComponent("avscale")}
}

// Init allocates the swscale context and the two astiav frames backing
// the conversion, sized and formatted to match input/output exactly.
func (s *Scaler) Init(input, output *imaging.Image, config imaging.SwscaleConfig) imaging.ErrorCode {
	if input.IsEmpty() || output.IsEmpty() {
		return s.state.errorOccurred(imaging.ErrScalerUnsupportedFormat)
	}

	srcFrame := astiav.AllocFrame()
	srcFrame.SetWidth(input.Width())
	srcFrame.SetHeight(input.Height())
	srcFrame.SetPixelFormat(input.PixelFormat().AVPixelFormat())
	if err := srcFrame.AllocBuffer(1); err != nil {
		srcFrame.Free()
		return s.state.errorOccurred(imaging.ErrOutOfMemory)
	}

	dstFrame := astiav.AllocFrame()
	dstFrame.SetWidth(output.Width())
	dstFrame.SetHeight(output.Height())
	dstFrame.SetPixelFormat(output.PixelFormat().AVPixelFormat())
	if err := dstFrame.AllocBuffer(1); err != nil {
		srcFrame.Free()
		dstFrame.Free()
		return s.state.errorOccurred(imaging.ErrOutOfMemory)
	}

	flags := astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear)
	if config.Flags != 0 {
		flags = astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlag(config.Flags))
	}

	ctx, err := astiav.CreateSoftwareScaleContext(
		input.Width(), input.Height(), input.PixelFormat().AVPixelFormat(),
		output.Width(), output.Height(), output.PixelFormat().AVPixelFormat(),
		flags,
	)
	if err != nil {
		srcFrame.Free()
		dstFrame.Free()
		s.log.Warn().Err(err).Msg("create swscale context failed")
		return s.state.errorOccurred(imaging.ErrScalerUnsupportedFormat)
	}

	s.ctx = ctx
	s.srcFrame = srcFrame
	s.dstFrame = dstFrame
	s.input = input
	s.output = output

	return s.state.initDone()
}

// Run copies the input image into the source frame, scales, and copies
// the destination frame into the output image.
func (s *Scaler) Run() imaging.ErrorCode {
	if !s.state.isReady() {
		return s.state.currentError()
	}

	if err := copyImageIntoFrame(s.input, s.srcFrame); err != nil {
		s.log.Warn().Err(err).Msg("copy image into frame failed")
		return s.state.errorOccurred(imaging.ErrScalerRun)
	}

	if err := s.ctx.ScaleFrame(s.srcFrame, s.dstFrame); err != nil {
		s.log.Warn().Err(err).Msg("scale frame failed")
		return s.state.errorOccurred(imaging.ErrScalerRun)
	}

	if err := copyFrameIntoImage(s.dstFrame, s.output); err != nil {
		s.log.Warn().Err(err).Msg("copy frame into image failed")
		return s.state.errorOccurred(imaging.ErrScalerRun)
	}

	return imaging.NoError
}

// Rebind swaps the bound output image without rebuilding the swscale
// context; the destination frame keeps its own buffer and dimensions, so
// this only changes where Run's final copy lands.
func (s *Scaler) Rebind(output *imaging.Image) {
	s.output = output
}

func (s *Scaler) CurrentError() imaging.ErrorCode { return s.state.currentError() }

// Close releases the swscale context and both frames.
func (s *Scaler) Close() {
	if s.srcFrame != nil {
		s.srcFrame.Free()
	}
	if s.dstFrame != nil {
		s.dstFrame.Free()
	}
	if s.ctx != nil {
		s.ctx.Free()
	}
}

// framePlaneIndex maps an imaging.Image plane index to the corresponding
// astiav.Frame plane index. astiav has no distinct YV12 pixel format code;
// a YV12 Image is scaled through a frame allocated as plain YUV420P (Y, U,
// V), so its U/V planes (index 1, 2 in YV12's V-then-U order) land swapped
// relative to the frame's U-then-V order.
func framePlaneIndex(format imaging.PixelFormat, imgPlane int) int {
	if format == imaging.YV12 {
		switch imgPlane {
		case 1:
			return 2
		case 2:
			return 1
		}
	}
	return imgPlane
}

// copyImageIntoFrame copies img's planes into frame's buffer, row by row,
// accounting for img's natural stride possibly differing from frame's
// linesize and for YV12's swapped chroma plane order.
func copyImageIntoFrame(img *imaging.Image, frame *astiav.Frame) error {
	dstPlanes, err := frame.Data().Bytes(1)
	if err != nil {
		return err
	}

	srcStrides := img.Strides()
	srcPlanes := img.Planes()
	format := img.PixelFormat()

	for p := 0; p < len(srcPlanes); p++ {
		src := srcPlanes[p]
		if len(src) == 0 {
			continue
		}
		dst := dstPlanes[framePlaneIndex(format, p)]
		srcStride := srcStrides[p]
		dstLinesize := frame.Linesize(framePlaneIndex(format, p))
		rows := len(src) / srcStride

		for row := 0; row < rows; row++ {
			srcStart := row * srcStride
			dstStart := row * dstLinesize
			copy(dst[dstStart:dstStart+srcStride], src[srcStart:srcStart+srcStride])
		}
	}

	return nil
}

// copyFrameIntoImage is copyImageIntoFrame's mirror: frame -> img.
func copyFrameIntoImage(frame *astiav.Frame, img *imaging.Image) error {
	srcPlanes, err := frame.Data().Bytes(1)
	if err != nil {
		return err
	}

	dstStrides := img.Strides()
	dstPlanes := img.Planes()
	format := img.PixelFormat()

	for p := 0; p < len(dstPlanes); p++ {
		dst := dstPlanes[p]
		if len(dst) == 0 {
			continue
		}
		src := srcPlanes[framePlaneIndex(format, p)]
		dstStride := dstStrides[p]
		srcLinesize := frame.Linesize(framePlaneIndex(format, p))
		rows := len(dst) / dstStride

		for row := 0; row < rows; row++ {
			dstStart := row * dstStride
			srcStart := row * srcLinesize
			copy(dst[dstStart:dstStart+dstStride], src[srcStart:srcStart+dstStride])
		}
	}

	return nil
}
