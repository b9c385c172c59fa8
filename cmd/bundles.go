package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/manager"
	"github.com/gopak/loadorder/internal/ui/console"
)

func init() {
	var dev, prod, interactive bool
	var only []string
	var format string
	cmd := &cobra.Command{
		Use:   "bundles [resource...]",
		Short: "Print the bundle load order",
		Long: "Resolve the bundles of every manager plugin, the configured declarations and the given\n" +
			"resources (declaration files or legacy module names) for one environment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dev && prod {
				return errors.New("--dev and --prod are mutually exclusive")
			}
			cfg := config.Get()
			switch {
			case dev:
				cfg.Environment = config.Development
			case prod:
				cfg.Environment = config.Production
			case interactive:
				picked, err := console.PromptEnvironment(cfg.Environment)
				if err != nil {
					return err
				}
				cfg.Environment = picked
			}
			ui, err := console.New(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			cfgs, err := manager.New(cfg).Bundles(cfg.Development(), only, args...)
			if err != nil {
				return err
			}
			return ui.Bundles(cfg.Environment, cfgs)
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "resolve for the development environment")
	cmd.Flags().BoolVar(&prod, "prod", false, "resolve for the production environment")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose the environment interactively")
	cmd.Flags().StringSliceVar(&only, "only", nil, "print only these bundles and what they load after")
	cmd.Flags().StringVarP(&format, "format", "f", console.FormatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(cmd)
}
