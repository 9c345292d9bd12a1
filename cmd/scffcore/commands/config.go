package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/myankochan/scff-imaging-core/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage scffcore configuration",
	Long:  `View and manage scffcore configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Example: `  # Show configuration as YAML (default)
  scffcore config show

  # Show configuration as JSON
  scffcore config show --format json`,
	RunE: runConfigShow,
}

var configSetPortCmd = &cobra.Command{
	Use:   "set-port PORT",
	Short: "Set the server port",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetPort,
}

var configSetLogLevelCmd = &cobra.Command{
	Use:   "set-log-level LEVEL",
	Short: "Set the log level (debug, info, warn, error)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetLogLevel,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

var formatFlag string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetPortCmd)
	configCmd.AddCommand(configSetLogLevelCmd)
	configCmd.AddCommand(configPathCmd)

	configShowCmd.Flags().StringVarP(&formatFlag, "format", "f", "yaml", "output format (yaml or json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg := configMgr.Get()

	switch formatFlag {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (use 'yaml' or 'json')", formatFlag)
	}
}

func runConfigSetPort(cmd *cobra.Command, args []string) error {
	var port int
	if _, err := fmt.Sscanf(args[0], "%d", &port); err != nil {
		return fmt.Errorf("invalid port number: %s", args[0])
	}

	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := configMgr.SetPort(port); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("server_port = %d\n", port)
	return nil
}

func runConfigSetLogLevel(cmd *cobra.Command, args []string) error {
	level := args[0]
	valid := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !valid[level] {
		return fmt.Errorf("invalid log level: %s (use: debug, info, warn, error)", level)
	}

	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := configMgr.SetLogLevel(level); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("log_level = %s\n", level)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Println(configMgr.GetConfigPath())
	return nil
}
