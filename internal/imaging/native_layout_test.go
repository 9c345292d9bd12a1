package imaging

import "testing"

func planarParameter(clipW, clipH int, keepAspect, stretch bool) LayoutParameter {
	return LayoutParameter{
		BoundX: 0, BoundY: 0, BoundWidth: 100, BoundHeight: 100,
		ClippingX: 0, ClippingY: 0, ClippingWidth: clipW, ClippingHeight: clipH,
		WindowHandle:    DesktopWindowHandle,
		KeepAspectRatio: keepAspect,
		Stretch:         stretch,
	}
}

func TestNativeLayoutUsesPaddingForPlanarOutput(t *testing.T) {
	output := NewImage()
	if code := output.Create(I420, 100, 100, false); code != NoError {
		t.Fatalf("Create output: %v", code)
	}
	defer output.Destroy()

	param := planarParameter(160, 90, true, false)
	layout := NewNativeLayout(param, newFakeCaptureFunc(1, NoError, NoError), newFakeScalerFunc(NoError, NoError, 2))
	defer layout.Close()

	if code := layout.Init(output); code != NoError {
		t.Fatalf("Init: %v", code)
	}
	if !layout.usePadding {
		t.Error("planar output should use padding for a mismatched-aspect source")
	}
	if layout.converted == nil {
		t.Fatal("converted image should be allocated when padding is used")
	}
}

func TestNativeLayoutSkipsPaddingForPackedOutput(t *testing.T) {
	output := NewImage()
	if code := output.Create(UYVY, 100, 100, false); code != NoError {
		t.Fatalf("Create output: %v", code)
	}
	defer output.Destroy()

	param := planarParameter(160, 90, true, false)
	layout := NewNativeLayout(param, newFakeCaptureFunc(1, NoError, NoError), newFakeScalerFunc(NoError, NoError, 2))
	defer layout.Close()

	if code := layout.Init(output); code != NoError {
		t.Fatalf("Init: %v", code)
	}
	if layout.usePadding {
		t.Error("UYVY output cannot use the planar-only padding blitter")
	}
	if layout.converted != nil {
		t.Error("converted image should not be allocated when padding is skipped")
	}
}

func TestNativeLayoutRunPropagatesCaptureError(t *testing.T) {
	output := NewImage()
	output.Create(I420, 100, 100, false)
	defer output.Destroy()

	param := planarParameter(100, 100, false, false)
	layout := NewNativeLayout(param, newFakeCaptureFunc(1, NoError, ErrCapture), newFakeScalerFunc(NoError, NoError, 2))
	defer layout.Close()

	if code := layout.Init(output); code != NoError {
		t.Fatalf("Init: %v", code)
	}
	if code := layout.Run(); code != ErrCapture {
		t.Fatalf("Run() = %v, want ErrCapture", code)
	}
	if code := layout.CurrentError(); code != ErrCapture {
		t.Fatalf("CurrentError() = %v, want ErrCapture", code)
	}
	// Once errored, Run is a no-op returning the latched error.
	if code := layout.Run(); code != ErrCapture {
		t.Fatalf("second Run() = %v, want latched ErrCapture", code)
	}
}

func TestNativeLayoutInitFailurePropagatesCaptureInitError(t *testing.T) {
	output := NewImage()
	output.Create(I420, 100, 100, false)
	defer output.Destroy()

	param := planarParameter(100, 100, false, false)
	layout := NewNativeLayout(param, newFakeCaptureFunc(1, ErrCapture, NoError), newFakeScalerFunc(NoError, NoError, 2))
	defer layout.Close()

	if code := layout.Init(output); code != ErrCapture {
		t.Fatalf("Init() = %v, want ErrCapture", code)
	}
}

func TestNativeLayoutSwapOutputImageRebindsScalerWithoutPadding(t *testing.T) {
	output := NewImage()
	output.Create(UYVY, 100, 100, false)
	defer output.Destroy()

	param := planarParameter(100, 100, false, false)
	layout := NewNativeLayout(param, newFakeCaptureFunc(1, NoError, NoError), newFakeScalerFunc(NoError, NoError, 2))
	defer layout.Close()

	if code := layout.Init(output); code != NoError {
		t.Fatalf("Init: %v", code)
	}

	fake := layout.scale.(*fakeScaler)
	other := NewImage()
	other.Create(UYVY, 100, 100, false)
	defer other.Destroy()

	layout.SwapOutputImage(other)
	if fake.rebindCount != 1 {
		t.Errorf("rebindCount = %d, want 1", fake.rebindCount)
	}
	if fake.output != other {
		t.Error("scaler should be rebound to the new output image")
	}
}

func TestNativeLayoutSwapOutputImageUpdatesPaddingWhenUsed(t *testing.T) {
	output := NewImage()
	output.Create(I420, 100, 100, false)
	defer output.Destroy()

	param := planarParameter(160, 90, true, false)
	layout := NewNativeLayout(param, newFakeCaptureFunc(1, NoError, NoError), newFakeScalerFunc(NoError, NoError, 2))
	defer layout.Close()

	if code := layout.Init(output); code != NoError {
		t.Fatalf("Init: %v", code)
	}
	if !layout.usePadding {
		t.Fatal("expected padding to be used")
	}

	other := NewImage()
	other.Create(I420, 100, 100, false)
	defer other.Destroy()

	layout.SwapOutputImage(other)
	if layout.padding.output != other {
		t.Error("padding's output should be rebound, not the scaler's")
	}
}
