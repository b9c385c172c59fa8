package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/ui/console"
)

func init() {
	var format string
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Print manager plugins in load order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, err := console.New(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			ins, err := manager.New(config.Get()).Plugins()
			if err != nil {
				return err
			}
			return ui.Plugins(ins)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", console.FormatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(cmd)
}
