package output

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
)

// imageToRGBA decodes one of the imaging core's canonical buffers (I420,
// UYVY, RGB0, or YV12) into a stdlib image.RGBA suitable for jpeg.Encode.
// This is splash.go's convertRGBAInto run in reverse: that function stamps
// an RGBA canvas into an Image's native layout, this one reads it back out.
func imageToRGBA(img *imaging.Image) (*image.RGBA, error) {
	w, h := img.Width(), img.Height()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	planes := img.Planes()
	strides := img.Strides()

	switch img.PixelFormat() {
	case imaging.RGB0:
		plane := planes[0]
		stride := strides[0]
		for y := 0; y < h; y++ {
			srcY := y
			if !img.Topdown() {
				srcY = h - 1 - y
			}
			row := plane[srcY*stride : srcY*stride+w*4]
			for x := 0; x < w; x++ {
				b, g, r := row[x*4], row[x*4+1], row[x*4+2]
				dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}

	case imaging.I420, imaging.YV12:
		yPlane, uPlane, vPlane := planes[0], planes[1], planes[2]
		if img.PixelFormat() == imaging.YV12 {
			uPlane, vPlane = vPlane, uPlane
		}
		yStride, uStride, vStride := strides[0], strides[1], strides[2]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				yy := yPlane[y*yStride+x]
				uu := uPlane[(y/2)*uStride+x/2]
				vv := vPlane[(y/2)*vStride+x/2]
				dst.SetRGBA(x, y, studioYCbCrToRGBA(yy, uu, vv))
			}
		}

	case imaging.UYVY:
		plane := planes[0]
		stride := strides[0]
		for y := 0; y < h; y++ {
			row := plane[y*stride : y*stride+w*2]
			for x := 0; x < w; x += 2 {
				u := row[x*2]
				y0 := row[x*2+1]
				v := row[x*2+2]
				y1 := row[x*2+3]
				dst.SetRGBA(x, y, studioYCbCrToRGBA(y0, u, v))
				if x+1 < w {
					dst.SetRGBA(x+1, y, studioYCbCrToRGBA(y1, u, v))
				}
			}
		}

	default:
		return nil, fmt.Errorf("unsupported pixel format %s", img.PixelFormat())
	}

	return dst, nil
}

// studioYCbCrToRGBA inverts splash.go's rgbToYUV: BT.601 studio-swing
// samples (luma 16..235, chroma centered on 128) to an opaque RGB pixel.
func studioYCbCrToRGBA(y, cb, cr byte) color.RGBA {
	c := 1.164 * (float64(y) - 16)
	d, e := float64(cb)-128, float64(cr)-128
	rgb := [3]float64{c + 1.596*e, c - 0.392*d - 0.813*e, c + 2.017*d}
	var out [3]uint8
	for i, v := range rgb {
		out[i] = uint8(math.Min(255, math.Max(0, v+0.5)))
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
}
