package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var current Config

func Get() Config { return current }

// Set replaces the config returned by Get, after env overrides for instance.
func Set(cfg Config) { current = cfg }

func LoadFromFiles(files []string) (Config, error) {
	return LoadDefaultsAndFiles(nil, files)
}

// LoadDefaultsAndFiles decodes defaultsYAML and overlays every YAML file in
// lexical order. Declarations accumulate; the same declaration in two places
// is an error naming both.
func LoadDefaultsAndFiles(defaultsYAML []byte, files []string) (Config, error) {
	var base Config
	if len(defaultsYAML) > 0 {
		if err := yaml.Unmarshal(defaultsYAML, &base); err != nil {
			return Config{}, fmt.Errorf("defaults: %w", err)
		}
	}
	seen := map[string]string{}
	if err := checkDeclDuplicatesWithFiles(seen, base, "defaults"); err != nil {
		return Config{}, err
	}
	merged := base
	for _, f := range sortedYAML(files) {
		b, err := os.ReadFile(f)
		if err != nil {
			return Config{}, err
		}
		var part Config
		if err := yaml.Unmarshal(b, &part); err != nil {
			return Config{}, fmt.Errorf("%s: %w", f, err)
		}
		if err := checkDeclDuplicatesWithFiles(seen, part, f); err != nil {
			return Config{}, err
		}
		merged = mergeConfig(merged, part)
	}
	current = merged
	return merged, nil
}

func sortedYAML(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		lf := strings.ToLower(f)
		if strings.HasSuffix(lf, ".yaml") || strings.HasSuffix(lf, ".yml") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// YAMLFilesIn lists the *.yaml and *.yml files directly inside dir.
func YAMLFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return sortedYAML(files), nil
}

func mergeConfig(base, overlay Config) Config {
	out := base
	overlayString(&out.Environment, overlay.Environment)
	overlayString(&out.RootDir, overlay.RootDir)
	overlayString(&out.ModulesDir, overlay.ModulesDir)
	overlayString(&out.InstalledJSON, overlay.InstalledJSON)
	overlayString(&out.PluginKey, overlay.PluginKey)
	overlayString(&out.PinnedFirst, overlay.PinnedFirst)
	overlayString(&out.AppPlugin, overlay.AppPlugin)
	overlayString(&out.BundlesFile, overlay.BundlesFile)
	overlayString(&out.LockFile, overlay.LockFile)
	overlayString(&out.WatchDebounce, overlay.WatchDebounce)

	decls := make([]string, 0, len(base.Declarations)+len(overlay.Declarations))
	decls = append(decls, base.Declarations...)
	decls = append(decls, overlay.Declarations...)
	out.Declarations = decls
	return out
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func checkDeclDuplicatesWithFiles(seen map[string]string, part Config, file string) error {
	local := map[string]struct{}{}
	for _, d := range part.Declarations {
		if _, ok := local[d]; ok {
			return fmt.Errorf("duplicate declaration '%s' found in %s", d, file)
		}
		local[d] = struct{}{}
	}
	for _, d := range part.Declarations {
		if prev, ok := seen[d]; ok {
			return fmt.Errorf("duplicate declaration '%s' found in %s and %s", d, prev, file)
		}
	}
	for _, d := range part.Declarations {
		seen[d] = file
	}
	return nil
}
