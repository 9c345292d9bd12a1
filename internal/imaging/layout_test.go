package imaging

import "testing"

func TestContains(t *testing.T) {
	if !contains(100, 100, 0, 0, 100, 100) {
		t.Error("exact fit should contain")
	}
	if contains(100, 100, 0, 0, 101, 100) {
		t.Error("width overflow should not contain")
	}
	if contains(100, 100, -1, 0, 10, 10) {
		t.Error("negative x should not contain")
	}
	if contains(100, 100, 50, 50, 51, 10) {
		t.Error("x+w past outer edge should not contain")
	}
}

func TestPaddingPolicyNoKeepAspectRatio(t *testing.T) {
	left, right, top, bottom := paddingPolicy(100, 50, 30, 30, false, false)
	if left != 0 || right != 0 || top != 0 || bottom != 0 {
		t.Errorf("keepAspectRatio=false should produce zero padding, got %d/%d/%d/%d", left, right, top, bottom)
	}
}

func TestPaddingPolicyLetterbox(t *testing.T) {
	// 16:9 inner into a 4:3 outer box of the same width: letterboxed top/bottom.
	left, right, top, bottom := paddingPolicy(160, 120, 160, 90, false, true)
	if left != 0 || right != 0 {
		t.Errorf("wide inner in wide-enough outer should have no side padding, got left=%d right=%d", left, right)
	}
	if top == 0 || bottom == 0 {
		t.Errorf("wide inner in a taller outer should be letterboxed top/bottom, got top=%d bottom=%d", top, bottom)
	}
	if top != bottom && top != bottom+1 && bottom != top+1 {
		t.Errorf("padding should be split ~evenly, got top=%d bottom=%d", top, bottom)
	}
}

func TestPaddingPolicyPillarbox(t *testing.T) {
	// A 4:3 inner into a 16:9 outer of the same height: pillarboxed left/right.
	left, right, top, bottom := paddingPolicy(160, 90, 120, 90, false, true)
	if top != 0 || bottom != 0 {
		t.Errorf("tall-enough inner should have no top/bottom padding, got top=%d bottom=%d", top, bottom)
	}
	if left == 0 || right == 0 {
		t.Errorf("narrow inner in a wider outer should be pillarboxed, got left=%d right=%d", left, right)
	}
}

func TestPaddingPolicyExactFitHasNoPadding(t *testing.T) {
	left, right, top, bottom := paddingPolicy(100, 100, 100, 100, false, true)
	if left != 0 || right != 0 || top != 0 || bottom != 0 {
		t.Errorf("exact aspect match should have no padding, got %d/%d/%d/%d", left, right, top, bottom)
	}
}

func TestPaddingPolicyNoStretchNeverUpscales(t *testing.T) {
	// Without stretch, an inner box smaller than outer is never upscaled
	// past 1:1, so padding fills the remainder on every side it's smaller.
	left, right, top, bottom := paddingPolicy(200, 200, 50, 50, false, true)
	wantPad := 200 - 50
	if left+right != wantPad || top+bottom != wantPad {
		t.Errorf("no-stretch small inner: padding = %d/%d (h) %d/%d (v), want total %d each axis",
			left, right, top, bottom, wantPad)
	}
}

func TestPaddingPolicyStretchAllowsUpscale(t *testing.T) {
	// With stretch, a small inner box is scaled up to fill the outer box
	// (preserving aspect), unlike the no-stretch case above.
	left, right, top, bottom := paddingPolicy(200, 100, 50, 50, true, true)
	// Aspect-preserving fit of a 1:1 box into 200x100 scales to 100x100,
	// pillarboxed left/right by 50 each.
	if left != 50 || right != 50 {
		t.Errorf("left/right = %d/%d, want 50/50", left, right)
	}
	if top != 0 || bottom != 0 {
		t.Errorf("top/bottom = %d/%d, want 0/0", top, bottom)
	}
}
