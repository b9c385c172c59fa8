package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/bundle/parser"
	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/logging"
	"github.com/gopak/loadorder/internal/manager"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the merged configuration and JSON declaration files against their schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		files, err := manager.New(cfg).DeclarationFiles()
		if err != nil {
			return err
		}
		manifest := cfg.Path(cfg.InstalledJSON)
		var failed []string
		for _, f := range files {
			if f == manifest || !strings.EqualFold(filepath.Ext(f), ".json") {
				continue
			}
			b, err := os.ReadFile(f)
			if err != nil {
				return err
			}
			if err := parser.ValidateDeclarations(b); err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", f, err))
				continue
			}
			logging.Debug("valid: " + f)
		}
		if len(failed) > 0 {
			return fmt.Errorf("invalid declaration files:\n%s", strings.Join(failed, "\n"))
		}
		logging.Success("Configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
