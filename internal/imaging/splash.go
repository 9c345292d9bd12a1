package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// renderSplash produces a deterministic decorative frame into dst: a dark
// slate background, a centered accent stripe, and a "NO SIGNAL" caption.
// This satisfies spec.md's out-of-scope "splash artwork generation"
// collaborator with a minimal concrete implementation, built once at
// Engine.Init from a transient RGBA canvas and converted into dst's own
// pixel format.
//
// Grounded on the original engine's temporary SplashScreen processor,
// built, run once, and discarded (engine.cc Init): we do the same with a
// throwaway image.RGBA canvas instead of a persistent processor.
func renderSplash(dst *Image) ErrorCode {
	w, h := dst.Width(), dst.Height()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))

	background := color.RGBA{R: 20, G: 22, B: 28, A: 255}
	accent := color.RGBA{R: 90, G: 110, B: 160, A: 255}

	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	stripeHeight := h / 24
	if stripeHeight < 2 {
		stripeHeight = 2
	}
	stripeRect := image.Rect(0, h/2-stripeHeight/2, w, h/2+stripeHeight/2)
	draw.Draw(canvas, stripeRect, &image.Uniform{C: accent}, image.Point{}, draw.Src)

	drawCaption(canvas, "NO SIGNAL", w/2, h/2-stripeHeight-12)

	return convertRGBAInto(dst, canvas)
}

// drawCaption draws s centered horizontally around cx, baseline at cy.
func drawCaption(canvas *image.RGBA, s string, cx, cy int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.RGBA{R: 220, G: 224, B: 235, A: 255}),
		Face: face,
		Dot:  fixed.P(cx-width/2, cy),
	}
	d.DrawString(s)
}

// convertRGBAInto writes canvas's pixels into dst, converting to dst's
// pixel format. This is a plain, low-frequency conversion (run once at
// Init) independent of the hot-path Scaler, so it is implemented directly
// rather than routed through the external scale primitive.
func convertRGBAInto(dst *Image, canvas *image.RGBA) ErrorCode {
	w, h := dst.Width(), dst.Height()

	switch dst.PixelFormat() {
	case RGB0:
		planes := dst.Planes()
		stride := dst.Strides()[0]
		for y := 0; y < h; y++ {
			srcY := y
			if dst.Topdown() {
				srcY = y
			} else {
				srcY = h - 1 - y
			}
			for x := 0; x < w; x++ {
				r, g, b, _ := canvas.At(x, srcY).RGBA()
				o := y*stride + x*4
				planes[0][o+0] = byte(b >> 8)
				planes[0][o+1] = byte(g >> 8)
				planes[0][o+2] = byte(r >> 8)
				planes[0][o+3] = 0
			}
		}
	case I420, YV12:
		planes := dst.Planes()
		strides := dst.Strides()
		uIdx, vIdx := 1, 2
		if dst.PixelFormat() == YV12 {
			uIdx, vIdx = 2, 1
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := canvas.At(x, y).RGBA()
				yy, u, v := rgbToYUV(byte(r>>8), byte(g>>8), byte(b>>8))
				planes[0][y*strides[0]+x] = yy
				if x%2 == 0 && y%2 == 0 {
					cx, cy := x/2, y/2
					planes[uIdx][cy*strides[1]+cx] = u
					planes[vIdx][cy*strides[2]+cx] = v
				}
			}
		}
	case UYVY:
		plane := dst.Planes()[0]
		stride := dst.Strides()[0]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x += 2 {
				r0, g0, b0, _ := canvas.At(x, y).RGBA()
				r1, g1, b1, _ := canvas.At(min(x+1, w-1), y).RGBA()
				y0, u, _ := rgbToYUV(byte(r0>>8), byte(g0>>8), byte(b0>>8))
				y1, _, v := rgbToYUV(byte(r1>>8), byte(g1>>8), byte(b1>>8))
				o := y*stride + x*2
				plane[o+0] = u
				plane[o+1] = y0
				plane[o+2] = v
				plane[o+3] = y1
			}
		}
	}

	return NoError
}

// rgbToYUV applies the BT.601 studio-swing conversion.
func rgbToYUV(r, g, b byte) (y, u, v byte) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	yy := 0.257*rf + 0.504*gf + 0.098*bf + 16
	uu := -0.148*rf - 0.291*gf + 0.439*bf + 128
	vv := 0.439*rf - 0.368*gf - 0.071*bf + 128
	return clampByte(yy), clampByte(uu), clampByte(vv)
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
