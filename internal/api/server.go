// Package api exposes the imaging engine and its configuration over HTTP:
// a gorilla/mux control API plus an MJPEG stream, adapted from the
// teacher's internal/api/server.go.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/myankochan/scff-imaging-core/internal/config"
	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/logger"
	"github.com/myankochan/scff-imaging-core/internal/output"
)

// Server is the HTTP control surface for one Engine.
type Server struct {
	router    *mux.Router
	engine    *imaging.Engine
	configMgr *config.Manager
	mjpeg     *output.MJPEGOutput
	upgrader  websocket.Upgrader
}

// NewServer builds a Server wired to engine, configMgr, and mjpeg. mjpeg may
// be nil if no stream output is configured.
func NewServer(engine *imaging.Engine, configMgr *config.Manager, mjpeg *output.MJPEGOutput) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		engine:    engine,
		configMgr: configMgr,
		mjpeg:     mjpeg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/engine/layout/reset", s.handleResetLayout).Methods("POST")
	api.HandleFunc("/engine/layout/native", s.handleSetNativeLayout).Methods("POST")
	api.HandleFunc("/engine/layout/complex", s.handleSetComplexLayout).Methods("POST")

	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/config", s.handleUpdateConfig).Methods("PUT")

	api.HandleFunc("/frame", s.handleGetFrame).Methods("GET")
	api.HandleFunc("/frame/ws", s.handleFrameWebsocket)

	if s.mjpeg != nil {
		s.router.HandleFunc("/stream", s.mjpeg.GetHTTPHandler())
		s.router.HandleFunc("/stream/stats", s.mjpeg.GetStatsHandler())
	}

	NewTypedAPI(s.engine, s.configMgr).Mount(s.router)

	s.router.PathPrefix("/").HandlerFunc(s.handleIndex)
}

// Start starts the HTTP server on port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.WithComponent("api").Info().Str("addr", addr).Msg("starting api server")
	return http.ListenAndServe(addr, s.enableCORS(s.router))
}

// Router exposes the underlying mux.Router, e.g. for httptest.
func (s *Server) Router() *mux.Router { return s.router }

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request's logs with a correlation id, the
// way a distributed deployment would need to trace a request across the
// control API and the worker goroutine's log lines.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		logger.WithComponent("api").Debug().
			Str("request_id", reqID).Str("method", r.Method).Str("path", r.URL.Path).
			Msg("request received")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleResetLayout(w http.ResponseWriter, r *http.Request) {
	if code := s.engine.ResetLayout(); code != imaging.NoError {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": code.String()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleSetNativeLayout(w http.ResponseWriter, r *http.Request) {
	if code := s.engine.SetNativeLayout(); code != imaging.NoError {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": code.String()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "native"})
}

func (s *Server) handleSetComplexLayout(w http.ResponseWriter, r *http.Request) {
	if code := s.engine.SetComplexLayout(); code != imaging.NoError {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": code.String()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "complex"})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.configMgr.Get())
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.configMgr.Update(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleGetFrame writes the engine's current front image straight through
// as an octet-stream, for a client that already knows the output format.
func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	format, err := s.configMgr.PixelFormat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	buf := make([]byte, imaging.CanonicalSize(format, cfg.Output.Width, cfg.Output.Height))
	if code := s.engine.CopyFrontImage(buf); code != imaging.NoError {
		http.Error(w, code.String(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Pixel-Format", format.String())
	w.Header().Set("X-Width", fmt.Sprint(cfg.Output.Width))
	w.Header().Set("X-Height", fmt.Sprint(cfg.Output.Height))
	w.Write(buf)
}

// handleFrameWebsocket pushes JSON frame-ready notices (not raw pixels --
// too big for a text-mode debug channel) whenever the client asks; it is a
// debug channel, separate from the browser stream (that's /stream).
func (s *Server) handleFrameWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		if err := conn.WriteJSON(map[string]string{"status": "frame_ready"}); err != nil {
			return
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		if !strings.HasPrefix(r.URL.Path, "/api") {
			http.NotFound(w, r)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>scff-imaging-core</title></head>
<body>
<h1>scff-imaging-core</h1>
<p>Server is running.</p>
<ul>
<li><a href="/api/health">/api/health</a></li>
<li><a href="/api/config">/api/config</a></li>
<li><a href="/stream">/stream</a> (MJPEG)</li>
<li><a href="/api/v2/docs">/api/v2/docs</a> (typed layout API)</li>
</ul>
</body>
</html>`)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
