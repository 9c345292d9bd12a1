package output

import (
	"net/http/httptest"
	"testing"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
)

func newTestFrame(t *testing.T, w, h int) *imaging.Image {
	t.Helper()
	img := imaging.NewImage()
	if code := img.Create(imaging.I420, w, h, true); code != imaging.NoError {
		t.Fatalf("Create: %v", code)
	}
	t.Cleanup(img.Destroy)
	return img
}

func TestMJPEGOutputWriteFrameRequiresRunning(t *testing.T) {
	m := NewMJPEGOutput(Config{Width: 4, Height: 4, FPS: 30})
	frame := newTestFrame(t, 4, 4)
	if err := m.WriteFrame(frame); err == nil {
		t.Error("WriteFrame on a stopped output should return an error")
	}
}

func TestMJPEGOutputStartStopLifecycle(t *testing.T) {
	m := NewMJPEGOutput(Config{Width: 4, Height: 4, FPS: 30})
	if m.IsRunning() {
		t.Fatal("output should not be running before Start")
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !m.IsRunning() {
		t.Fatal("output should be running after Start")
	}
	if err := m.Start(); err == nil {
		t.Error("starting an already-running output should error")
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if m.IsRunning() {
		t.Error("output should not be running after Stop")
	}
}

func TestMJPEGOutputWriteFrameEncodesAndBroadcasts(t *testing.T) {
	m := NewMJPEGOutput(Config{Width: 4, Height: 4, FPS: 30})
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop()

	ch := make(chan []byte, 1)
	m.clientsMu.Lock()
	m.clients[ch] = struct{}{}
	m.clientsMu.Unlock()

	frame := newTestFrame(t, 4, 4)
	if err := m.WriteFrame(frame); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	select {
	case jpegBytes := <-ch:
		if len(jpegBytes) == 0 {
			t.Error("broadcast jpeg payload should not be empty")
		}
	default:
		t.Error("connected client should have received the encoded frame")
	}

	if m.frameCount != 1 {
		t.Errorf("frameCount = %d, want 1", m.frameCount)
	}
}

func TestMJPEGOutputStatsHandlerReportsRunningState(t *testing.T) {
	m := NewMJPEGOutput(Config{Width: 8, Height: 8, FPS: 15})
	m.Start()
	defer m.Stop()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stream/stats", nil)
	m.GetStatsHandler()(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got == "" {
		t.Error("stats handler should set a Content-Type header")
	}
}

func TestMJPEGOutputName(t *testing.T) {
	m := NewMJPEGOutput(Config{Width: 1, Height: 1, FPS: 1})
	if m.Name() == "" {
		t.Error("Name() should not be empty")
	}
}
