package imaging

// This file implements the draw-utils primitive of spec.md §6
// (fill_rectangle / copy_rectangle, planar only) directly against Image
// planes, plus the Padding blitter (C3) built on top of it.
//
// Grounded on the teacher's internal/display/manager.go, which performs
// the equivalent row-by-row plane manipulation by hand (putImage,
// scaleImage) rather than through a library: no Go binding in the example
// pack exposes a generic "fill/copy planar rectangle" operator at the
// plane level (astiav operates on whole frames via swscale/filters, not
// arbitrary sub-rectangles of raw planes), so this is deliberately plain
// stdlib byte-slice arithmetic.

// chromaShift returns the horizontal and vertical subsampling shift for
// plane index i of a planar YUV 4:2:0 format (0 for the luma plane, 1 for
// the two chroma planes).
func chromaShift(format PixelFormat, plane int) (shiftX, shiftY int) {
	if (format == I420 || format == YV12) && plane > 0 {
		return 1, 1
	}
	return 0, 0
}

// bytesPerSample returns the number of bytes per sample for plane index i.
func bytesPerSample(format PixelFormat, plane int) int {
	switch format {
	case RGB0:
		return 4
	case UYVY:
		return 2
	default:
		return 1
	}
}

// fillRectangle fills the rectangle (x,y,w,h) of img, in luma/packed
// coordinates, with opaque black on every plane.
func fillRectangle(img *Image, x, y, w, h int) {
	format := img.format
	strides := img.strides
	planes := img.planes

	for p := 0; p < format.planeCount(); p++ {
		sx, sy := chromaShift(format, p)
		px := x >> sx
		py := y >> sy
		pw := (w + (1 << sx) - 1) >> sx
		ph := (h + (1 << sy) - 1) >> sy
		bps := bytesPerSample(format, p)

		stride := strides[p]
		plane := planes[p]
		for row := 0; row < ph; row++ {
			rowStart := (py+row)*stride + px*bps
			rowEnd := rowStart + pw*bps
			if rowStart < 0 || rowEnd > len(plane) {
				continue
			}
			rowBytes := plane[rowStart:rowEnd]
			if p == 0 && format == RGB0 {
				// BGRX black: B=0 G=0 R=0 X=0.
				for i := range rowBytes {
					rowBytes[i] = 0
				}
			} else if format == I420 || format == YV12 {
				if p == 0 {
					for i := range rowBytes {
						rowBytes[i] = 16 // studio-swing luma black
					}
				} else {
					for i := range rowBytes {
						rowBytes[i] = 128 // neutral chroma
					}
				}
			} else if format == UYVY {
				// U Y V Y byte order: neutral chroma, studio-swing luma black.
				for i := range rowBytes {
					if i%2 == 0 {
						rowBytes[i] = 128
					} else {
						rowBytes[i] = 16
					}
				}
			}
		}
	}
}

// copyRectangle copies a (w,h) rectangle from src at (srcX,srcY) to dst at
// (dstX,dstY). src and dst must share format.
func copyRectangle(dst, src *Image, dstX, dstY, srcX, srcY, w, h int) {
	format := dst.format
	dstStrides := dst.strides
	srcStrides := src.strides

	for p := 0; p < format.planeCount(); p++ {
		sx, sy := chromaShift(format, p)
		dpx := dstX >> sx
		dpy := dstY >> sy
		spx := srcX >> sx
		spy := srcY >> sy
		pw := (w + (1 << sx) - 1) >> sx
		ph := (h + (1 << sy) - 1) >> sy
		bps := bytesPerSample(format, p)

		dstStride := dstStrides[p]
		srcStride := srcStrides[p]
		dstPlane := dst.planes[p]
		srcPlane := src.planes[p]

		for row := 0; row < ph; row++ {
			dRowStart := (dpy+row)*dstStride + dpx*bps
			sRowStart := (spy+row)*srcStride + spx*bps
			dRowEnd := dRowStart + pw*bps
			sRowEnd := sRowStart + pw*bps
			if dRowStart < 0 || dRowEnd > len(dstPlane) || sRowStart < 0 || sRowEnd > len(srcPlane) {
				continue
			}
			copy(dstPlane[dRowStart:dRowEnd], srcPlane[sRowStart:sRowEnd])
		}
	}
}

// Padding copies an inner image into an outer image at a fixed offset,
// filling the margin with opaque black (C3).
type Padding struct {
	state processorState

	left, right, top, bottom int
	input, output            *Image
}

// NewPadding returns an uninitialized Padding blitter for the given margins.
func NewPadding(left, right, top, bottom int) *Padding {
	return &Padding{
		state:  newProcessorState(),
		left:   left,
		right:  right,
		top:    top,
		bottom: bottom,
	}
}

// Init validates that output = input + margins and that both images share
// a planar, blitter-compatible format.
func (p *Padding) Init(input, output *Image) ErrorCode {
	if input.IsEmpty() || output.IsEmpty() {
		return p.state.errorOccurred(ErrPaddingGeometry)
	}
	if !input.PixelFormat().Planar() || !output.PixelFormat().Planar() ||
		input.PixelFormat() != output.PixelFormat() {
		return p.state.errorOccurred(ErrInvalidPixelFormat)
	}
	if output.Width() != input.Width()+p.left+p.right ||
		output.Height() != input.Height()+p.top+p.bottom {
		return p.state.errorOccurred(ErrPaddingGeometry)
	}

	p.input = input
	p.output = output
	return p.state.initDone()
}

// Run fills the four margin rectangles with opaque black, then copies the
// inner image into the outer image at (left, top).
func (p *Padding) Run() ErrorCode {
	if !p.state.isReady() {
		return p.state.currentError()
	}

	out := p.output
	in := p.input
	W, H := out.Width(), out.Height()
	w, h := in.Width(), in.Height()

	if p.top > 0 {
		fillRectangle(out, 0, 0, W, p.top)
	}
	if p.bottom > 0 {
		fillRectangle(out, 0, p.top+h, W, p.bottom)
	}
	if p.left > 0 {
		fillRectangle(out, 0, p.top, p.left, h)
	}
	if p.right > 0 {
		fillRectangle(out, p.left+w, p.top, p.right, h)
	}

	copyRectangle(out, in, p.left, p.top, 0, 0, w, h)

	return NoError
}

func (p *Padding) CurrentError() ErrorCode { return p.state.currentError() }
func (p *Padding) Close()                  { p.input, p.output = nil, nil }
