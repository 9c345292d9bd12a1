package commands

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/myankochan/scff-imaging-core/internal/config"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Pretty-print the resolved configuration and staged layout parameters",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg := configMgr.Get()
	pp.Println(cfg)

	count, params := configMgr.LayoutParameters()
	fmt.Printf("\nelement_count = %d\n", count)
	for i := 0; i < count; i++ {
		pp.Println(params[i])
	}

	return nil
}
