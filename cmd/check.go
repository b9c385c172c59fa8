package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/logging"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/state"
	"github.com/gopak/loadorder/internal/ui/console"
)

var errOutdated = errors.New("lock file is outdated, run dump")

func init() {
	var format string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the lock file against the declaration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			ui, err := console.New(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			lock, err := state.NewManager(cfg.Path(cfg.LockFile))
			if err != nil {
				return err
			}
			m := manager.New(cfg)
			changed, err := m.Check(lock)
			if err != nil {
				return err
			}
			if len(changed) == 0 {
				logging.Success("lock file is up to date")
				return nil
			}
			if err := ui.Changed(changed); err != nil {
				return err
			}
			drift, err := m.Drift(lock)
			if err != nil {
				return err
			}
			for _, d := range drift {
				if err := ui.Drift(d); err != nil {
					return err
				}
			}
			return errOutdated
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", console.FormatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(cmd)
}
