package config

import (
	"path/filepath"
	"testing"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerCreatesDefaultsWhenMissing(t *testing.T) {
	m := newTestManager(t)
	cfg := m.Get()

	if cfg.Output.PixelFormat != "I420" {
		t.Errorf("default pixel format = %q, want I420", cfg.Output.PixelFormat)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("default server port = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Layout.ElementCount != 1 {
		t.Errorf("default element count = %d, want 1", cfg.Layout.ElementCount)
	}
}

func TestNewManagerReloadsPersistedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	first, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager (create): %v", err)
	}
	if err := first.SetPort(9999); err != nil {
		t.Fatalf("SetPort: %v", err)
	}

	second, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager (reload): %v", err)
	}
	if got := second.GetPort(); got != 9999 {
		t.Errorf("reloaded port = %d, want 9999", got)
	}
}

func TestManagerGetReturnsIndependentCopy(t *testing.T) {
	m := newTestManager(t)
	cfg := m.Get()
	cfg.Layout.Elements[0].BoundWidth = 12345

	fresh := m.Get()
	if fresh.Layout.Elements[0].BoundWidth == 12345 {
		t.Error("mutating a Get() result should not affect the manager's stored config")
	}
}

func TestManagerSetLogLevelPersists(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel: %v", err)
	}
	if got := m.GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestParsePixelFormat(t *testing.T) {
	cases := map[string]imaging.PixelFormat{
		"I420": imaging.I420,
		"uyvy": imaging.UYVY,
		"RgB0": imaging.RGB0,
		"YV12": imaging.YV12,
	}
	for input, want := range cases {
		got, err := parsePixelFormat(input)
		if err != nil {
			t.Fatalf("parsePixelFormat(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("parsePixelFormat(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := parsePixelFormat("bogus"); err == nil {
		t.Error("parsePixelFormat(\"bogus\") should return an error")
	}
}

func TestManagerLayoutParametersTranslatesElements(t *testing.T) {
	m := newTestManager(t)
	cfg := m.Get()
	cfg.Layout.ElementCount = 1
	cfg.Layout.Elements = []ElementConfig{
		{
			BoundX: 1, BoundY: 2, BoundWidth: 3, BoundHeight: 4,
			ClippingX: 5, ClippingY: 6, ClippingWidth: 7, ClippingHeight: 8,
			WindowHandle: 42, Stretch: true, KeepAspectRatio: true,
		},
	}
	if err := m.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	count, params := m.LayoutParameters()
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	p := params[0]
	if p.BoundX != 1 || p.BoundY != 2 || p.BoundWidth != 3 || p.BoundHeight != 4 {
		t.Errorf("bound rect = %+v, want (1,2,3,4)", p)
	}
	if p.ClippingWidth != 7 || p.ClippingHeight != 8 {
		t.Errorf("clipping size = %d/%d, want 7/8", p.ClippingWidth, p.ClippingHeight)
	}
	if p.WindowHandle != 42 || !p.Stretch || !p.KeepAspectRatio {
		t.Errorf("unexpected translated element: %+v", p)
	}
}

func TestManagerLayoutParametersCapsElementCount(t *testing.T) {
	m := newTestManager(t)
	cfg := m.Get()
	cfg.Layout.ElementCount = imaging.MaxProcessorSize + 5
	if err := m.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	count, _ := m.LayoutParameters()
	if count != imaging.MaxProcessorSize {
		t.Errorf("count = %d, want capped at %d", count, imaging.MaxProcessorSize)
	}
}

func TestManagerIsComplexLayout(t *testing.T) {
	m := newTestManager(t)
	if m.IsComplexLayout() {
		t.Error("default layout mode should not be complex")
	}

	cfg := m.Get()
	cfg.Layout.Mode = "Complex"
	if err := m.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !m.IsComplexLayout() {
		t.Error("mode \"Complex\" should be recognized case-insensitively")
	}
}
