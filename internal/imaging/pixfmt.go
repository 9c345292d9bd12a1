package imaging

import (
	"fmt"

	"github.com/asticode/go-astiav"
)

// PixelFormat is the enumerated set of pixel formats the imaging core
// understands. Every format carries an av-pixel-format code (used by the
// scale/draw external primitives), a topdown flag, and a planar flag.
type PixelFormat int

const (
	// I420 is planar 4:2:0 YUV (Y plane, then U, then V).
	I420 PixelFormat = iota
	// UYVY is packed 4:2:2 YUV.
	UYVY
	// RGB0 is packed 32bpp BGRX. Bottom-up in memory unless explicitly
	// created as topdown (the capture primitive always produces topdown
	// RGB0, so a topdown RGB0 output is the common case).
	RGB0
	// YV12 is planar 4:2:0 YUV with U and V planes swapped relative to I420.
	YV12
)

func (f PixelFormat) String() string {
	switch f {
	case I420:
		return "I420"
	case UYVY:
		return "UYVY"
	case RGB0:
		return "RGB0"
	case YV12:
		return "YV12"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// pixelFormatDescriptor holds the static properties of a PixelFormat.
type pixelFormatDescriptor struct {
	avFormat astiav.PixelFormat
	topdown  bool
	planar   bool
}

// descriptors is keyed by PixelFormat and describes RGB0 as bottom-up, its
// default row order; callers that need a topdown RGB0 image (such as the
// capture primitive's output) set Image.topdown explicitly at Create time.
var descriptors = map[PixelFormat]pixelFormatDescriptor{
	I420: {avFormat: astiav.PixelFormatYuv420P, topdown: false, planar: true},
	UYVY: {avFormat: astiav.PixelFormatUyvy422, topdown: false, planar: false},
	RGB0: {avFormat: astiav.PixelFormatBgr0, topdown: false, planar: true},
	YV12: {avFormat: astiav.PixelFormatYuv420P, topdown: false, planar: true},
}

// AVPixelFormat returns the av-pixel-format code the scale/draw external
// primitives use for this format.
func (f PixelFormat) AVPixelFormat() astiav.PixelFormat {
	return descriptors[f].avFormat
}

// Planar reports whether this format's channels occupy separate byte
// planes. Only planar formats are compatible with the draw-utils blitter,
// and thus with complex layout and with native-layout padding.
func (f PixelFormat) Planar() bool {
	return descriptors[f].planar
}

// planeCount returns how many byte planes a format of this type has.
func (f PixelFormat) planeCount() int {
	switch f {
	case I420, YV12:
		return 3
	case UYVY, RGB0:
		return 1
	default:
		return 0
	}
}

// planeSizes returns the byte size of each plane for a width x height image
// of this format, and the row stride (natural, unpadded) for each plane.
func (f PixelFormat) planeSizes(width, height int) (sizes [4]int, strides [4]int) {
	switch f {
	case I420, YV12:
		chromaW := (width + 1) / 2
		chromaH := (height + 1) / 2
		strides[0] = width
		strides[1] = chromaW
		strides[2] = chromaW
		sizes[0] = strides[0] * height
		sizes[1] = strides[1] * chromaH
		sizes[2] = strides[2] * chromaH
	case UYVY:
		strides[0] = width * 2
		sizes[0] = strides[0] * height
	case RGB0:
		strides[0] = width * 4
		sizes[0] = strides[0] * height
	}
	return sizes, strides
}

// CanonicalSize returns the canonical contiguous byte size of an image of
// this format and dimensions: planes concatenated, each stride-packed to
// its natural row width. This is the size CopyFrontImage always produces
// and the size a consumer must pass in dst_size.
func CanonicalSize(format PixelFormat, width, height int) int {
	sizes, _ := format.planeSizes(width, height)
	total := 0
	for _, s := range sizes {
		total += s
	}
	return total
}
