// Package supervise wires the HTTP control server and the frame-pump loop
// that feeds the MJPEG output into one restart-on-failure tree.
//
// Grounded on ItsNotGoodName-x-ipcviewer's pkg/sutureext/sutureext.go: the
// same EventHook logging shape and ServiceFunc wrapper for turning a plain
// func(context.Context) error into a suture.Service, adapted from slog to
// this repo's zerolog component loggers.
package supervise

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/logger"
	"github.com/myankochan/scff-imaging-core/internal/output"
)

// NewSupervisor returns a root suture.Supervisor with logging wired to the
// supervise component logger.
func NewSupervisor(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{EventHook: eventHook()})
}

func eventHook() suture.EventHook {
	log := logger.WithComponent("supervise")
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			log.Warn().Str("service", e.ServiceName).Msg("service failed to terminate in time")
		case suture.EventServicePanic:
			log.Error().Str("panic", e.PanicMsg).Msg("service panicked")
		case suture.EventServiceTerminate:
			log.Error().Err(e.Err).Str("service", e.ServiceName).Msg("service terminated")
		case suture.EventBackoff:
			log.Warn().Str("supervisor", e.SupervisorName).Msg("entering backoff after repeated failures")
		case suture.EventResume:
			log.Info().Str("supervisor", e.SupervisorName).Msg("resumed after backoff")
		default:
			b, _ := json.Marshal(e)
			log.Debug().RawJSON("event", b).Msg("suture event")
		}
	}
}

// serviceFunc adapts a plain context-taking function into a suture.Service.
type serviceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewServiceFunc names fn so suture's logs can identify it.
func NewServiceFunc(name string, fn func(ctx context.Context) error) suture.Service {
	return serviceFunc{name: name, fn: fn}
}

func (s serviceFunc) String() string { return s.name }

func (s serviceFunc) Serve(ctx context.Context) error {
	err := s.fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return suture.ErrDoNotRestart
	}
	return err
}

// HTTPServer wraps an *http.Server as a suture.Service that shuts down
// cleanly on supervisor stop instead of leaking a bare ListenAndServe call.
func HTTPServer(srv *http.Server) suture.Service {
	return NewServiceFunc("api-server", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
			return ctx.Err()
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})
}

// FramePump polls engine's front buffer at interval and feeds it to out,
// giving the MJPEG stream its own restart-on-panic lifecycle independent of
// the engine's own worker goroutine.
func FramePump(engine *imaging.Engine, out output.Output, format imaging.PixelFormat, width, height int, topdown bool, interval time.Duration) suture.Service {
	return NewServiceFunc("frame-pump", func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		buf := make([]byte, imaging.CanonicalSize(format, width, height))
		frame := imaging.NewImage()
		if code := frame.Create(format, width, height, topdown); code != imaging.NoError {
			return code
		}
		defer frame.Destroy()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if code := engine.CopyFrontImage(buf); code != imaging.NoError {
					continue
				}
				copy(frame.Raw(), buf)
				if err := out.WriteFrame(frame); err != nil {
					logger.WithComponent("supervise").Debug().Err(err).Msg("frame pump write failed")
				}
			}
		}
	})
}
