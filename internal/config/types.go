package config

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	Production  = "production"
	Development = "development"
)

type Config struct {
	Environment   string   `mapstructure:"environment" yaml:"environment" json:"environment"`
	RootDir       string   `mapstructure:"root_dir" yaml:"root_dir" json:"root_dir,omitempty"`
	ModulesDir    string   `mapstructure:"modules_dir" yaml:"modules_dir" json:"modules_dir,omitempty"`
	InstalledJSON string   `mapstructure:"installed_json" yaml:"installed_json" json:"installed_json,omitempty"`
	PluginKey     string   `mapstructure:"plugin_key" yaml:"plugin_key" json:"plugin_key"`
	PinnedFirst   string   `mapstructure:"pinned_first" yaml:"pinned_first" json:"pinned_first,omitempty"`
	AppPlugin     string   `mapstructure:"app_plugin" yaml:"app_plugin" json:"app_plugin,omitempty"`
	BundlesFile   string   `mapstructure:"bundles_file" yaml:"bundles_file" json:"bundles_file,omitempty"`
	Declarations  []string `mapstructure:"declarations" yaml:"declarations" json:"declarations,omitempty"`
	LockFile      string   `mapstructure:"lock_file" yaml:"lock_file" json:"lock_file"`
	WatchDebounce string   `mapstructure:"watch_debounce" yaml:"watch_debounce" json:"watch_debounce,omitempty"`
}

// Development reports whether bundles resolve for the development environment.
func (c Config) Development() bool { return c.Environment == Development }

// Debounce parses watch_debounce; an empty value means 500ms.
func (c Config) Debounce() (time.Duration, error) {
	if c.WatchDebounce == "" {
		return 500 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(c.WatchDebounce)
	if err != nil {
		return 0, fmt.Errorf("watch_debounce: %w", err)
	}
	return d, nil
}

// Path resolves p against root_dir unless it is absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}
