package imaging

import "testing"

func TestCanonicalSizePlanar420(t *testing.T) {
	// 4x2 I420: luma 4x2=8, chroma 2x1=2 each -> 12.
	if got, want := CanonicalSize(I420, 4, 2), 12; got != want {
		t.Errorf("I420 4x2 = %d, want %d", got, want)
	}
	// Odd dimensions round chroma planes up.
	if got, want := CanonicalSize(I420, 3, 3), 3*3+2*2+2*2; got != want {
		t.Errorf("I420 3x3 = %d, want %d", got, want)
	}
}

func TestCanonicalSizePacked(t *testing.T) {
	if got, want := CanonicalSize(UYVY, 4, 2), 4*2*2; got != want {
		t.Errorf("UYVY 4x2 = %d, want %d", got, want)
	}
	if got, want := CanonicalSize(RGB0, 4, 2), 4*2*4; got != want {
		t.Errorf("RGB0 4x2 = %d, want %d", got, want)
	}
}

func TestPixelFormatPlanar(t *testing.T) {
	cases := map[PixelFormat]bool{
		I420: true,
		YV12: true,
		UYVY: false,
		RGB0: true,
	}
	for format, want := range cases {
		if got := format.Planar(); got != want {
			t.Errorf("%v.Planar() = %v, want %v", format, got, want)
		}
	}
}

func TestPixelFormatString(t *testing.T) {
	cases := map[PixelFormat]string{
		I420: "I420",
		UYVY: "UYVY",
		RGB0: "RGB0",
		YV12: "YV12",
	}
	for format, want := range cases {
		if got := format.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
	if got := PixelFormat(99).String(); got != "PixelFormat(99)" {
		t.Errorf("unknown format String() = %q", got)
	}
}
