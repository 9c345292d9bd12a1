package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/myankochan/scff-imaging-core/internal/api"
	"github.com/myankochan/scff-imaging-core/internal/avscale"
	"github.com/myankochan/scff-imaging-core/internal/config"
	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/logger"
	"github.com/myankochan/scff-imaging-core/internal/output"
	"github.com/myankochan/scff-imaging-core/internal/supervise"
	"github.com/myankochan/scff-imaging-core/internal/x11capture"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the imaging engine and its control/stream server",
	Long: `Start the capture/scale/compose engine and expose it over HTTP: a
JSON control API for layout changes, an MJPEG stream of the composed
output, and an OpenAPI-documented typed sub-API for layout parameters.`,
	Example: `  # Start server on the configured port
  scffcore serve

  # Start server on a custom port
  scffcore serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}

	if viper.IsSet("server_port") {
		if port := viper.GetInt("server_port"); port > 0 {
			configMgr.SetPort(port)
		}
	}
	if viper.IsSet("log_level") {
		if level := viper.GetString("log_level"); level != "" {
			configMgr.SetLogLevel(level)
		}
	}

	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, true)

	format, err := configMgr.PixelFormat()
	if err != nil {
		return fmt.Errorf("invalid output pixel format: %w", err)
	}

	engine := imaging.NewEngine(
		format, cfg.Output.Width, cfg.Output.Height, cfg.Output.FPS, cfg.Output.Topdown,
		x11capture.New, avscale.New,
	)
	if code := engine.Init(); code != imaging.NoError {
		return fmt.Errorf("engine init failed: %s", code)
	}
	defer engine.Close()

	count, params := configMgr.LayoutParameters()
	engine.SetLayoutParameters(count, params)
	if configMgr.IsComplexLayout() {
		engine.SetComplexLayout()
	} else {
		engine.SetNativeLayout()
	}

	mjpeg := output.NewMJPEGOutput(output.Config{
		Width: cfg.Output.Width, Height: cfg.Output.Height, FPS: int(cfg.Output.FPS),
	})
	if err := mjpeg.Start(); err != nil {
		return fmt.Errorf("failed to start mjpeg output: %w", err)
	}
	defer mjpeg.Stop()

	server := api.NewServer(engine, configMgr, mjpeg)
	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.ServerPort), Handler: server.Router()}

	super := supervise.NewSupervisor("scffcore")
	super.Add(supervise.HTTPServer(httpServer))
	super.Add(supervise.FramePump(
		engine, mjpeg, format, cfg.Output.Width, cfg.Output.Height, cfg.Output.Topdown,
		time.Duration(float64(time.Second)/cfg.Output.FPS),
	))

	ctx, cancel := context.WithCancel(context.Background())
	go super.Serve(ctx)

	logger.Get().Info().Int("port", cfg.ServerPort).Msg("scffcore serving")
	fmt.Printf("scffcore listening on http://localhost:%d (Ctrl+C to stop)\n", cfg.ServerPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Get().Info().Msg("shutting down")
	cancel()
	return nil
}
