package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/myankochan/scff-imaging-core/internal/imaging"
	"github.com/myankochan/scff-imaging-core/internal/logger"
)

// OutputConfig describes the engine's output buffer.
type OutputConfig struct {
	PixelFormat string  `json:"pixel_format" yaml:"pixel_format"`
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	FPS         float64 `json:"fps" yaml:"fps"`
	Topdown     bool    `json:"topdown" yaml:"topdown"`
}

// ElementConfig is one LayoutParameter, in a form that round-trips
// through YAML/JSON.
type ElementConfig struct {
	BoundX      int `json:"bound_x" yaml:"bound_x"`
	BoundY      int `json:"bound_y" yaml:"bound_y"`
	BoundWidth  int `json:"bound_width" yaml:"bound_width"`
	BoundHeight int `json:"bound_height" yaml:"bound_height"`

	ClippingX      int `json:"clipping_x" yaml:"clipping_x"`
	ClippingY      int `json:"clipping_y" yaml:"clipping_y"`
	ClippingWidth  int `json:"clipping_width" yaml:"clipping_width"`
	ClippingHeight int `json:"clipping_height" yaml:"clipping_height"`

	WindowHandle uint64 `json:"window_handle" yaml:"window_handle"`

	Stretch           bool `json:"stretch" yaml:"stretch"`
	KeepAspectRatio   bool `json:"keep_aspect_ratio" yaml:"keep_aspect_ratio"`
	ShowCursor        bool `json:"show_cursor" yaml:"show_cursor"`
	ShowLayeredWindow bool `json:"show_layered_window" yaml:"show_layered_window"`
}

// LayoutConfig is the staged layout: which mode to build and the element
// parameters to build it from.
type LayoutConfig struct {
	Mode         string          `json:"mode" yaml:"mode"` // "native" or "complex"
	ElementCount int             `json:"element_count" yaml:"element_count"`
	Elements     []ElementConfig `json:"elements" yaml:"elements"`
}

// Config is the persisted application configuration.
type Config struct {
	Output     OutputConfig `json:"output" yaml:"output"`
	Layout     LayoutConfig `json:"layout" yaml:"layout"`
	ServerPort int          `json:"server_port" yaml:"server_port"`
	LogLevel   string       `json:"log_level" yaml:"log_level"`
}

// Manager handles loading, persisting, and translating configuration.
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager loads configFile (or the default path under
// ~/.config/scffcore/config.yaml) into a Manager, creating it with
// defaults if absent.
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "scffcore")
	actualConfigPath := filepath.Join(configDir, "config.yaml")
	if configFile != "" {
		actualConfigPath = configFile
	}

	if err := os.MkdirAll(filepath.Dir(actualConfigPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{configPath: actualConfigPath}

	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			logger.WithComponent("config").Info().
				Str("path", m.configPath).
				Msg("config file not found, creating new config")
			m.config = m.getDefaults()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Str("pixel_format", m.config.Output.PixelFormat).
		Int("width", m.config.Output.Width).
		Int("height", m.config.Output.Height).
		Msg("config loaded")

	return m, nil
}

func (m *Manager) getDefaults() *Config {
	return &Config{
		Output: OutputConfig{
			PixelFormat: "I420",
			Width:       1280,
			Height:      720,
			FPS:         30,
			Topdown:     false,
		},
		Layout: LayoutConfig{
			Mode:         "native",
			ElementCount: 1,
			Elements: []ElementConfig{
				{
					BoundX: 0, BoundY: 0, BoundWidth: 1280, BoundHeight: 720,
					ClippingX: 0, ClippingY: 0, ClippingWidth: 1280, ClippingHeight: 720,
					WindowHandle:    imaging.DesktopWindowHandle,
					KeepAspectRatio: true,
				},
			},
		},
		ServerPort: 8080,
		LogLevel:   "info",
	}
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return m.getDefaults()
	}
	cfg := *m.config
	cfg.Layout.Elements = append([]ElementConfig(nil), m.config.Layout.Elements...)
	return &cfg
}

// Update replaces the entire configuration and persists it.
func (m *Manager) Update(cfg *Config) error {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return m.Save()
}

// Save writes the current configuration to disk as YAML.
func (m *Manager) Save() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if cfg == nil {
		cfg = m.getDefaults()
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		logger.WithComponent("config").Error().Err(err).Str("path", m.configPath).Msg("failed to write config")
		return err
	}

	logger.WithComponent("config").Debug().Str("path", m.configPath).Msg("config saved")
	return nil
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetPort sets and persists the server port.
func (m *Manager) SetPort(port int) error {
	m.mu.Lock()
	m.config.ServerPort = port
	m.mu.Unlock()
	return m.Save()
}

// GetPort returns the server port.
func (m *Manager) GetPort() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ServerPort
}

// SetLogLevel sets and persists the log level.
func (m *Manager) SetLogLevel(level string) error {
	m.mu.Lock()
	m.config.LogLevel = level
	m.mu.Unlock()
	return m.Save()
}

// GetLogLevel returns the log level.
func (m *Manager) GetLogLevel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.LogLevel
}

// PixelFormat parses the configured output pixel format.
func (m *Manager) PixelFormat() (imaging.PixelFormat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return parsePixelFormat(m.config.Output.PixelFormat)
}

func parsePixelFormat(s string) (imaging.PixelFormat, error) {
	switch strings.ToUpper(s) {
	case "I420":
		return imaging.I420, nil
	case "UYVY":
		return imaging.UYVY, nil
	case "RGB0":
		return imaging.RGB0, nil
	case "YV12":
		return imaging.YV12, nil
	default:
		return 0, fmt.Errorf("unknown pixel format: %q", s)
	}
}

// LayoutParameters translates the staged LayoutConfig into the element
// count and fixed-size array Engine.SetLayoutParameters expects.
func (m *Manager) LayoutParameters() (int, [imaging.MaxProcessorSize]imaging.LayoutParameter) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var params [imaging.MaxProcessorSize]imaging.LayoutParameter
	count := m.config.Layout.ElementCount
	if count > imaging.MaxProcessorSize {
		count = imaging.MaxProcessorSize
	}

	for i := 0; i < len(m.config.Layout.Elements) && i < imaging.MaxProcessorSize; i++ {
		e := m.config.Layout.Elements[i]
		params[i] = imaging.LayoutParameter{
			BoundX: e.BoundX, BoundY: e.BoundY, BoundWidth: e.BoundWidth, BoundHeight: e.BoundHeight,
			ClippingX: e.ClippingX, ClippingY: e.ClippingY, ClippingWidth: e.ClippingWidth, ClippingHeight: e.ClippingHeight,
			WindowHandle:      e.WindowHandle,
			Stretch:           e.Stretch,
			KeepAspectRatio:   e.KeepAspectRatio,
			ShowCursor:        e.ShowCursor,
			ShowLayeredWindow: e.ShowLayeredWindow,
		}
	}

	return count, params
}

// IsComplexLayout reports whether the staged layout mode is "complex".
func (m *Manager) IsComplexLayout() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return strings.EqualFold(m.config.Layout.Mode, "complex")
}
