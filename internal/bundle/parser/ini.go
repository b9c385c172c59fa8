package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/gopak/loadorder/internal/bundle"
)

const requiresKey = "requires[]"

// INIParser reads legacy modules laid out as <modules dir>/<name>, each
// optionally listing its requirements in config/autoload.ini:
//
//	requires[] = "core"
//	requires[] = "*calendar"
//
// A leading "*" marks an optional requirement.
type INIParser struct {
	dir string
}

func NewINIParser(modulesDir string) *INIParser {
	return &INIParser{dir: modulesDir}
}

func (p *INIParser) Supports(resource, typ string) bool {
	return typ == "ini" || isDir(filepath.Join(p.dir, resource))
}

// Parse returns the module itself followed by every module it requires,
// transitively, each once. Modules without a directory or autoload.ini
// yield a declaration without requirements.
func (p *INIParser) Parse(resource, typ string) (bundle.Configs, error) {
	var w iniWalk
	return w.parse(p, resource)
}

// Files returns the autoload.ini files Parse reads for resource, in the
// order they are read.
func (p *INIParser) Files(resource string) ([]string, error) {
	var w iniWalk
	if _, err := w.parse(p, resource); err != nil {
		return nil, err
	}
	return w.files, nil
}

type iniWalk struct {
	loaded map[string]bool
	files  []string
}

func (w *iniWalk) parse(p *INIParser, name string) (bundle.Configs, error) {
	if w.loaded == nil {
		w.loaded = map[string]bool{}
	}
	w.loaded[name] = true
	cfg := bundle.NewConfig(name)
	configs := bundle.Configs{cfg}

	file := filepath.Join(p.dir, name, "config", "autoload.ini")
	requires, found, err := p.requires(file)
	if err != nil {
		return nil, err
	}
	if found {
		w.files = append(w.files, file)
	}
	for _, module := range requires {
		if strings.HasPrefix(module, "*") {
			module = strings.TrimPrefix(module, "*")
			cfg.LoadAfter = append(cfg.LoadAfter, module)
			if !isDir(filepath.Join(p.dir, module)) {
				continue
			}
		} else {
			cfg.LoadAfter = append(cfg.LoadAfter, module)
		}
		if w.loaded[module] {
			continue
		}
		sub, err := w.parse(p, module)
		if err != nil {
			return nil, err
		}
		configs = append(configs, sub...)
	}
	return configs, nil
}

// requires reports the requirements listed in file and whether file exists.
func (p *INIParser) requires(file string) ([]string, bool, error) {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, file)
	if err != nil {
		return nil, true, fmt.Errorf("file %s cannot be decoded: %w", file, err)
	}
	sec := f.Section(ini.DefaultSection)
	if !sec.HasKey(requiresKey) {
		return nil, true, nil
	}
	var out []string
	for _, v := range sec.Key(requiresKey).ValueWithShadows() {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, true, nil
}
