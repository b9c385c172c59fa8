package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/logging"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/watcher"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Dump again whenever a declaration file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, config.Get())
		},
	}
	rootCmd.AddCommand(cmd)
}

func watch(ctx context.Context, cfg config.Config) error {
	debounce, err := cfg.Debounce()
	if err != nil {
		return err
	}
	if err := dump(ctx, cfg); err != nil {
		logging.Error(err.Error())
	}

	var files []string
	var w *watcher.Watcher
	var onChange <-chan struct{}
	defer func() {
		if w != nil {
			_ = w.Stop()
		}
	}()
	for {
		// the set of files may change with the declarations themselves
		next, err := manager.New(cfg).DeclarationFiles()
		if err != nil {
			if w == nil {
				return err
			}
			logging.Error(err.Error())
		} else if w == nil || !slices.Equal(next, files) {
			if w != nil {
				_ = w.Stop()
			}
			files = next
			w, err = watcher.New(watcher.Config{Files: files, DebounceDur: debounce})
			if err != nil {
				return err
			}
			if onChange, err = w.Start(); err != nil {
				return err
			}
			logging.Info("watching " + pluralFiles(len(files)))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-onChange:
			if err := dump(ctx, cfg); err != nil {
				logging.Error(err.Error())
			}
		}
	}
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
