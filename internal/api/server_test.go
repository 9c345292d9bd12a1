package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/myankochan/scff-imaging-core/internal/config"
	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/output"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configMgr, err := config.NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	engine := imaging.NewEngine(imaging.I420, 8, 8, 30, false, newNoopCaptureFunc, newNoopScalerFunc)
	if code := engine.Init(); code != imaging.NoError {
		t.Fatalf("engine.Init: %v", code)
	}
	t.Cleanup(engine.Close)

	cfg := configMgr.Get()
	cfg.Output.Width, cfg.Output.Height = 8, 8
	if err := configMgr.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	mjpeg := output.NewMJPEGOutput(output.Config{Width: 8, Height: 8, FPS: 30})
	if err := mjpeg.Start(); err != nil {
		t.Fatalf("mjpeg.Start: %v", err)
	}
	t.Cleanup(func() { mjpeg.Stop() })

	return NewServer(engine, configMgr, mjpeg)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestHandleGetConfig(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var cfg config.Config
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Output.PixelFormat != "I420" {
		t.Errorf("pixel format = %q, want I420", cfg.Output.PixelFormat)
	}
}

func TestHandleUpdateConfig(t *testing.T) {
	s := newTestServer(t)

	cfg := s.configMgr.Get()
	cfg.LogLevel = "debug"
	body, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := doRequest(s, http.MethodPut, "/api/config", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := s.configMgr.GetLogLevel(); got != "debug" {
		t.Errorf("log level after update = %q, want debug", got)
	}
}

func TestHandleUpdateConfigRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodPut, "/api/config", []byte("not json"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleResetAndSetLayout(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodPost, "/api/engine/layout/reset", nil); rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", rec.Code)
	}
	if rec := doRequest(s, http.MethodPost, "/api/engine/layout/native", nil); rec.Code != http.StatusOK {
		t.Fatalf("native status = %d, want 200", rec.Code)
	}
	if rec := doRequest(s, http.MethodPost, "/api/engine/layout/complex", nil); rec.Code != http.StatusOK {
		t.Fatalf("complex status = %d, want 200", rec.Code)
	}
}

func TestHandleGetFrame(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/frame", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := imaging.CanonicalSize(imaging.I420, 8, 8)
	if rec.Body.Len() != want {
		t.Errorf("frame body length = %d, want %d", rec.Body.Len(), want)
	}
	if got := rec.Header().Get("X-Pixel-Format"); got != "I420" {
		t.Errorf("X-Pixel-Format = %q, want I420", got)
	}
}

func TestHandleIndexServesRootOnly(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("/ status = %d, want 200", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/nonexistent", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("/nonexistent status = %d, want 404", rec.Code)
	}
}

func TestCORSHeadersOnOptions(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	s.enableCORS(s.Router()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("OPTIONS status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
