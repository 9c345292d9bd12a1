package output

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"net/http"
	"sync"
	"time"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/logger"
)

// MJPEGOutput streams frames as Motion JPEG over HTTP so a browser tab can
// display the engine's live output without any client-side decoder.
type MJPEGOutput struct {
	config  Config
	running bool
	mu      sync.RWMutex

	frameMu    sync.RWMutex
	lastUpdate time.Time

	clientsMu sync.RWMutex
	clients   map[chan []byte]struct{}

	frameCount uint64
	startTime  time.Time
}

// NewMJPEGOutput creates a new MJPEG stream output.
func NewMJPEGOutput(config Config) *MJPEGOutput {
	return &MJPEGOutput{
		config:  config,
		clients: make(map[chan []byte]struct{}),
	}
}

// Start initializes the MJPEG output. The HTTP handler is registered
// separately via GetHTTPHandler.
func (m *MJPEGOutput) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("mjpeg output already running")
	}

	m.running = true
	m.startTime = time.Now()
	m.frameCount = 0

	logger.WithComponent("output").Info().
		Int("width", m.config.Width).Int("height", m.config.Height).Int("fps", m.config.FPS).
		Msg("mjpeg output started")
	return nil
}

// Stop cleanly shuts down the output.
func (m *MJPEGOutput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false

	m.clientsMu.Lock()
	for ch := range m.clients {
		close(ch)
	}
	m.clients = make(map[chan []byte]struct{})
	m.clientsMu.Unlock()

	logger.WithComponent("output").Info().Uint64("frames", m.frameCount).Msg("mjpeg output stopped")
	return nil
}

// WriteFrame converts frame to RGBA, encodes it as JPEG, and broadcasts it
// to every connected client, dropping it for clients whose buffer is full.
func (m *MJPEGOutput) WriteFrame(frame *imaging.Image) error {
	if !m.IsRunning() {
		return fmt.Errorf("mjpeg output not running")
	}

	rgba, err := imageToRGBA(frame)
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, rgba, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	jpegData := buf.Bytes()

	m.frameMu.Lock()
	m.lastUpdate = time.Now()
	m.frameMu.Unlock()
	m.frameCount++

	m.clientsMu.RLock()
	for ch := range m.clients {
		select {
		case ch <- jpegData:
		default:
		}
	}
	m.clientsMu.RUnlock()

	return nil
}

// Name returns the output type name.
func (m *MJPEGOutput) Name() string { return "MJPEG HTTP Stream" }

// IsRunning returns true if the output is active.
func (m *MJPEGOutput) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// GetHTTPHandler returns an http.Handler for the MJPEG stream. Mount this
// at /stream or similar.
func (m *MJPEGOutput) GetHTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Connection", "close")

		frameChan := make(chan []byte, 2)

		m.clientsMu.Lock()
		m.clients[frameChan] = struct{}{}
		clientCount := len(m.clients)
		m.clientsMu.Unlock()

		logger.WithComponent("output").Info().Int("clients", clientCount).Msg("mjpeg client connected")

		defer func() {
			m.clientsMu.Lock()
			delete(m.clients, frameChan)
			remaining := len(m.clients)
			m.clientsMu.Unlock()
			logger.WithComponent("output").Info().Int("clients", remaining).Msg("mjpeg client disconnected")
		}()

		for jpegData := range frameChan {
			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpegData)); err != nil {
				return
			}
			if _, err := w.Write(jpegData); err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

// GetViewerHandler returns a minimal full-screen viewer page for the stream.
func (m *MJPEGOutput) GetViewerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>scff-imaging-core</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { background: #000; overflow: hidden; display: flex; justify-content: center; align-items: center; min-height: 100vh; }
        img { width: 100vw; height: 100vh; object-fit: contain; display: block; background: #000; }
    </style>
</head>
<body>
    <img src="/stream" alt="live stream">
</body>
</html>`))
	}
}

// GetStatsHandler returns an HTTP handler showing stream statistics.
func (m *MJPEGOutput) GetStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		running := m.running
		frameCount := m.frameCount
		startTime := m.startTime
		m.mu.RUnlock()

		m.frameMu.RLock()
		lastUpdate := m.lastUpdate
		m.frameMu.RUnlock()

		m.clientsMu.RLock()
		clientCount := len(m.clients)
		m.clientsMu.RUnlock()

		var fps float64
		if running && !startTime.IsZero() {
			if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
				fps = float64(frameCount) / elapsed
			}
		}

		status := "stopped"
		if running {
			status = "running"
		}
		lastUpdateStr := "never"
		if !lastUpdate.IsZero() {
			lastUpdateStr = time.Since(lastUpdate).Round(time.Millisecond).String() + " ago"
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>scff-imaging-core - MJPEG Stats</title>
<style>body{font-family:monospace;padding:20px;background:#1e1e1e;color:#d4d4d4}.label{color:#569cd6}.value{color:#4ec9b0}</style>
</head>
<body>
<h1>MJPEG Stream Stats</h1>
<p><span class="label">Status:</span> <span class="value">%s</span></p>
<p><span class="label">Resolution:</span> <span class="value">%dx%d @ %d fps (target)</span></p>
<p><span class="label">Actual fps:</span> <span class="value">%.2f</span></p>
<p><span class="label">Total frames:</span> <span class="value">%d</span></p>
<p><span class="label">Connected clients:</span> <span class="value">%d</span></p>
<p><span class="label">Last update:</span> <span class="value">%s</span></p>
<p><a href="/stream" style="color:#569cd6;">View stream</a></p>
</body>
</html>`, status, m.config.Width, m.config.Height, m.config.FPS, fps, frameCount, clientCount, lastUpdateStr)
	}
}
