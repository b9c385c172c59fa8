package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/logging"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/state"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Resolve both environments and write the lock file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(cmd.Context(), config.Get())
		},
	}
	rootCmd.AddCommand(cmd)
}

func dump(ctx context.Context, cfg config.Config) error {
	lock, err := state.NewManager(cfg.Path(cfg.LockFile))
	if err != nil {
		return fmt.Errorf("read lock file: %w", err)
	}
	var s *spinner.Spinner
	if !verbose {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Resolving load order..."
		s.Start()
	}
	res, err := manager.New(cfg).Dump(ctx, lock)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}
	logging.Gray(fmt.Sprintf("%d plugins, %d production bundles, %d development bundles",
		len(res.Plugins), len(res.Production), len(res.Development)))
	for _, f := range res.Files {
		logging.Debug("recorded " + f)
	}
	logging.Success("wrote " + lock.Path())
	return nil
}
