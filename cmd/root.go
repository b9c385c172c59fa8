package cmd

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gopak/loadorder/internal/assets"
	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/logging"
)

var cfgFile string
var rootDir string
var verbose bool
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "loadorder",
	Short:         "Resolve the load order of bundles and manager plugins",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	defer logging.Close()
	err := rootCmd.Execute()
	if err != nil {
		logging.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to any YAML file inside the config directory (default dir: ~/.config/loadorder); all *.yaml in that directory are merged")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (overrides root_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show detailed steps")
	rootCmd.Version = version
	cobra.OnInitialize(initConfig)
}

func configDir() string {
	if cfgFile != "" {
		return filepath.Dir(cfgFile)
	}
	dir, _ := os.UserConfigDir()
	if su := os.Getenv("SUDO_USER"); su != "" {
		if u, err := user.Lookup(su); err == nil && u.HomeDir != "" {
			dir = filepath.Join(u.HomeDir, ".config")
		}
	}
	return filepath.Join(dir, "loadorder")
}

func initConfig() {
	logging.SetVerbose(verbose)
	cfgDir := configDir()
	if err := assets.WriteDefaultConfigIfMissing(cfgDir); err != nil {
		logging.Warn("cannot write default config: " + err.Error())
	}
	files, err := config.YAMLFilesIn(cfgDir)
	if err != nil && !os.IsNotExist(err) {
		logging.Error("config error: " + err.Error())
		os.Exit(1)
	}
	cfg, err := config.LoadDefaultsAndFiles(assets.DefaultConfig, files)
	if err != nil {
		logging.Error("config error: " + err.Error())
		os.Exit(1)
	}

	v := config.NewViper()
	_ = v.BindPFlag("root_dir", rootCmd.PersistentFlags().Lookup("root"))
	cfg = config.ApplyEnv(cfg, v)
	if err := config.ValidateAgainstSchema(cfg, cfgDir); err != nil {
		logging.Error(err.Error())
		os.Exit(1)
	}
	config.Set(cfg)
	logging.Init()
	logging.Debug("config directory: " + cfgDir)
}
