package imaging

// Image owns a single contiguous pixel buffer of a fixed format and
// dimensions. Once created, dimensions and format are immutable; the
// planes are views into the one buffer. An uncreated Image is "empty" and
// must not be read.
//
// Grounded on the teacher's manual plane/stride bookkeeping in
// internal/display/manager.go (putImage) and the original engine's
// AVPictureImage, which likewise derives per-plane pointers from a single
// allocation instead of holding N separate buffers.
type Image struct {
	state processorState

	format  PixelFormat
	width   int
	height  int
	topdown bool

	raw     []byte
	planes  [4][]byte
	strides [4]int
}

// NewImage returns an empty Image; call Create before use.
func NewImage() *Image {
	return &Image{state: newProcessorState()}
}

// Create allocates the pixel buffer and derives plane pointers/strides for
// the given format and dimensions. topdown is stored as given for every
// format and reported by Topdown(); Create does not restrict it to RGB0 (the
// capture primitive always produces topdown RGB0).
func (img *Image) Create(format PixelFormat, width, height int, topdown bool) ErrorCode {
	if width < 1 || height < 1 {
		return img.state.errorOccurred(ErrOutOfMemory)
	}

	sizes, strides := format.planeSizes(width, height)
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total <= 0 {
		return img.state.errorOccurred(ErrFillFailure)
	}

	raw := make([]byte, total)
	if raw == nil {
		return img.state.errorOccurred(ErrOutOfMemory)
	}

	img.format = format
	img.width = width
	img.height = height
	img.topdown = topdown
	img.raw = raw
	img.strides = strides

	offset := 0
	for i := 0; i < format.planeCount(); i++ {
		img.planes[i] = raw[offset : offset+sizes[i]]
		offset += sizes[i]
	}

	return img.state.initDone()
}

// IsEmpty reports whether Create has not yet succeeded on this Image.
func (img *Image) IsEmpty() bool {
	return !img.state.isReady()
}

// Destroy releases the pixel buffer. The Image returns to the empty state.
func (img *Image) Destroy() {
	img.raw = nil
	for i := range img.planes {
		img.planes[i] = nil
	}
	img.state = newProcessorState()
}

// PixelFormat returns the image's pixel format.
func (img *Image) PixelFormat() PixelFormat { return img.format }

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Topdown reports whether this image's rows run top-to-bottom in memory.
func (img *Image) Topdown() bool { return img.topdown }

// Planes returns the plane byte slices in use for this image's format.
func (img *Image) Planes() [4][]byte { return img.planes }

// Strides returns the natural (unpadded) row stride for each plane.
func (img *Image) Strides() [4]int { return img.strides }

// Raw returns the whole contiguous buffer backing the image, in canonical
// plane-concatenated layout.
func (img *Image) Raw() []byte { return img.raw }

// Size returns the canonical byte size of this image.
func (img *Image) Size() int {
	return CanonicalSize(img.format, img.width, img.height)
}

// CopyFrom overwrites this image's buffer with src's, byte for byte. Both
// images must share format and dimensions.
func (img *Image) CopyFrom(src *Image) {
	copy(img.raw, src.raw)
}
