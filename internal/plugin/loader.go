package plugin

import (
	"errors"
	"fmt"

	"github.com/gopak/loadorder/internal/logging"
)

const AppName = "app"

type Options struct {
	// Manifest is the path of installed.json.
	Manifest string
	// Key is the extra key naming a package's plugin identifier.
	Key string
	// PinnedFirst is loaded before every other package.
	PinnedFirst string
	// AppPlugin is the registry identifier of the project plugin, which
	// is appended last under the name "app" when registered.
	AppPlugin string
	Registry  *Registry
	// ManifestOptional treats a missing manifest as one without packages.
	ManifestOptional bool
}

// Loader reads the manifest once and keeps the ordered plugins.
type Loader struct {
	opts    Options
	plugins []Instance
	loaded  bool
}

func NewLoader(opts Options) *Loader {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	return &Loader{opts: opts}
}

// Instances returns the plugins in load order.
func (l *Loader) Instances() ([]Instance, error) {
	if err := l.load(); err != nil {
		return nil, err
	}
	return append([]Instance{}, l.plugins...), nil
}

// InstancesOf returns the plugins accepted by match, optionally in reverse
// load order.
func (l *Loader) InstancesOf(match func(Plugin) bool, reverse bool) ([]Instance, error) {
	all, err := l.Instances()
	if err != nil {
		return nil, err
	}
	out := make([]Instance, 0, len(all))
	for _, in := range all {
		if match(in.Plugin) {
			out = append(out, in)
		}
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// IsBundlePlugin matches plugins that contribute bundle declarations.
func IsBundlePlugin(p Plugin) bool {
	_, ok := p.(BundlePlugin)
	return ok
}

func (l *Loader) load() error {
	if l.loaded {
		return nil
	}
	pkgs, err := ReadManifest(l.opts.Manifest)
	if errors.Is(err, ErrManifestNotFound) && l.opts.ManifestOptional {
		logging.Debug(err.Error())
		pkgs, err = nil, nil
	}
	if err != nil {
		return err
	}

	byName := map[string]Plugin{}
	candidates := make([]Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		id, ok := pkg.PluginID(l.opts.Key)
		if !ok {
			continue
		}
		factory, ok := l.opts.Registry.Lookup(id)
		if !ok {
			return fmt.Errorf("manager plugin %q of package %s was not found (registered: %v)", id, pkg.Name, l.opts.Registry.IDs())
		}
		p, err := factory(pkg)
		if err != nil {
			return fmt.Errorf("create plugin for %s: %w", pkg.Name, err)
		}
		byName[pkg.Name] = p
		c := Package{Name: pkg.Name}
		if dp, ok := p.(DependentPlugin); ok {
			c.Dependencies = dp.PackageDependencies()
		}
		candidates = append(candidates, c)
		logging.Debug(fmt.Sprintf("plugin %s: %s", pkg.Name, id))
	}

	order, err := OrderPackages(candidates, l.opts.PinnedFirst)
	if err != nil {
		return err
	}
	plugins := make([]Instance, 0, len(order)+1)
	for _, name := range order {
		plugins = append(plugins, Instance{Name: name, Plugin: byName[name]})
	}

	if l.opts.AppPlugin != "" {
		if factory, ok := l.opts.Registry.factories[l.opts.AppPlugin]; ok {
			p, err := factory(ManifestPackage{Name: AppName})
			if err != nil {
				return fmt.Errorf("create app plugin: %w", err)
			}
			plugins = append(plugins, Instance{Name: AppName, Plugin: p})
		}
	}

	l.plugins = plugins
	l.loaded = true
	return nil
}
