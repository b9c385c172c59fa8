package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by ApplyEnv, so
// LOADORDER_ROOT_DIR overrides root_dir.
const EnvPrefix = "LOADORDER"

var stringKeys = []string{
	"environment",
	"root_dir",
	"modules_dir",
	"installed_json",
	"plugin_key",
	"pinned_first",
	"app_plugin",
	"bundles_file",
	"lock_file",
	"watch_debounce",
}

// NewViper returns a viper instance bound to the LOADORDER_* variables.
// Flags may be bound to it afterwards with BindPFlag.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, k := range stringKeys {
		_ = v.BindEnv(k)
	}
	_ = v.BindEnv("declarations")
	return v
}

// ApplyEnv overlays every key set in v on cfg. LOADORDER_DECLARATIONS holds a
// whitespace separated list which replaces the configured declarations.
func ApplyEnv(cfg Config, v *viper.Viper) Config {
	fields := map[string]*string{
		"environment":    &cfg.Environment,
		"root_dir":       &cfg.RootDir,
		"modules_dir":    &cfg.ModulesDir,
		"installed_json": &cfg.InstalledJSON,
		"plugin_key":     &cfg.PluginKey,
		"pinned_first":   &cfg.PinnedFirst,
		"app_plugin":     &cfg.AppPlugin,
		"bundles_file":   &cfg.BundlesFile,
		"lock_file":      &cfg.LockFile,
		"watch_debounce": &cfg.WatchDebounce,
	}
	for _, k := range stringKeys {
		if v.IsSet(k) {
			overlayString(fields[k], v.GetString(k))
		}
	}
	if v.IsSet("declarations") {
		if decls := v.GetStringSlice("declarations"); len(decls) > 0 {
			cfg.Declarations = decls
		}
	}
	return cfg
}
