// Package manager wires configuration, plugins, declaration parsers and the
// lock file into the operations the CLI exposes.
package manager

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/bundle/parser"
	"github.com/gopak/loadorder/internal/config"
	"github.com/gopak/loadorder/internal/logging"
	"github.com/gopak/loadorder/internal/plugin"
	"github.com/gopak/loadorder/internal/state"
)

type Manager struct {
	cfg      config.Config
	registry *plugin.Registry
	loader   *plugin.Loader
	parser   *parser.DelegatingParser
	ini      *parser.INIParser

	manifestOnce sync.Once
	manifest     map[string]bool
}

func New(cfg config.Config) *Manager {
	m := &Manager{cfg: cfg}
	manifestPath := cfg.Path(cfg.InstalledJSON)

	m.registry = plugin.NewRegistry()
	m.registry.SetFallback(plugin.PackageFactory(manifestPath, cfg.BundlesFile))
	if cfg.AppPlugin != "" {
		root := cfg.RootDir
		bundlesFile := cfg.BundlesFile
		m.registry.Register(cfg.AppPlugin, func(pkg plugin.ManifestPackage) (plugin.Plugin, error) {
			return plugin.NewPackagePlugin(pkg, root, bundlesFile), nil
		})
	}
	m.loader = plugin.NewLoader(plugin.Options{
		Manifest:    manifestPath,
		Key:         cfg.PluginKey,
		PinnedFirst: cfg.PinnedFirst,
		AppPlugin:   cfg.AppPlugin,
		Registry:    m.registry,

		ManifestOptional: true,
	})
	locate := parser.AnyLocator(parser.DirLocator(cfg.Path(cfg.ModulesDir)), m.inManifest)
	m.ini = parser.NewINIParser(cfg.Path(cfg.ModulesDir))
	m.parser = parser.NewDefault(cfg.RootDir, locate)
	m.parser.AddParser(m.ini)
	return m
}

// Registry allows callers to register plugin factories before the first
// call that loads plugins.
func (m *Manager) Registry() *plugin.Registry { return m.registry }

// inManifest locates optional bundles named after an installed package.
func (m *Manager) inManifest(name string) bool {
	m.manifestOnce.Do(func() {
		m.manifest = map[string]bool{}
		pkgs, err := plugin.ReadManifest(m.cfg.Path(m.cfg.InstalledJSON))
		if err != nil {
			logging.Debug("locator: " + err.Error())
			return
		}
		for _, p := range pkgs {
			m.manifest[p.Name] = true
		}
	})
	return m.manifest[name]
}

// Plugins returns the manager plugins in load order. Without a manifest
// only the app plugin is returned.
func (m *Manager) Plugins() ([]plugin.Instance, error) {
	return m.loader.Instances()
}

// Resolver collects the declarations of every bundle plugin, then the
// configured declarations, then extra, in that order.
func (m *Manager) Resolver(extra ...string) (*bundle.Resolver, error) {
	r := bundle.NewResolver()
	bundlePlugins, err := m.loader.InstancesOf(plugin.IsBundlePlugin, false)
	if err != nil {
		return nil, err
	}
	if err := plugin.RegisterBundles(bundlePlugins, m.parser, r); err != nil {
		return nil, err
	}
	resources := append(append([]string{}, m.cfg.Declarations...), extra...)
	for _, res := range resources {
		cfgs, err := m.parser.Parse(res, "")
		if err != nil {
			return nil, err
		}
		logging.Debug(fmt.Sprintf("%s: %d declarations", res, len(cfgs)))
		r.Add(cfgs...)
	}
	logging.Debug(fmt.Sprintf("resolver: %d bundles declared", r.Len()))
	return r, nil
}

// Bundles resolves the load order for one environment. With only set, the
// result is narrowed to those bundles and what they load after.
func (m *Manager) Bundles(development bool, only []string, extra ...string) (bundle.Configs, error) {
	r, err := m.Resolver(extra...)
	if err != nil {
		return nil, err
	}
	if len(only) > 0 {
		return r.Requirements(development, only...)
	}
	return r.BundleConfigs(development)
}

// DumpResult is what Dump wrote to the lock file.
type DumpResult struct {
	Plugins     []string
	Production  bundle.Configs
	Development bundle.Configs
	Files       []string
}

// Dump resolves plugins and both environments and records them, with
// checksums of the declaration files, in lock.
func (m *Manager) Dump(ctx context.Context, lock *state.Manager) (DumpResult, error) {
	var res DumpResult
	ins, err := m.Plugins()
	if err != nil {
		return res, err
	}
	for _, in := range ins {
		res.Plugins = append(res.Plugins, in.Name)
	}
	r, err := m.Resolver()
	if err != nil {
		return res, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfgs, err := r.BundleConfigs(false)
		if err != nil {
			return fmt.Errorf("%s: %w", config.Production, err)
		}
		res.Production = cfgs
		return ctx.Err()
	})
	g.Go(func() error {
		cfgs, err := r.BundleConfigs(true)
		if err != nil {
			return fmt.Errorf("%s: %w", config.Development, err)
		}
		res.Development = cfgs
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return res, err
	}

	if res.Files, err = m.DeclarationFiles(); err != nil {
		return res, err
	}
	lock.SetPlugins(res.Plugins)
	lock.SetBundles(config.Production, res.Production.Names())
	lock.SetBundles(config.Development, res.Development.Names())
	if err := lock.Record(res.Files); err != nil {
		return res, err
	}
	if err := lock.Save(time.Now()); err != nil {
		return res, fmt.Errorf("write %s: %w", lock.Path(), err)
	}
	return res, nil
}

// Check lists the declaration files changed since lock was written.
func (m *Manager) Check(lock *state.Manager) ([]string, error) {
	if !lock.Exists() {
		return nil, fmt.Errorf("lock file %s was not found, run dump first", lock.Path())
	}
	files, err := m.DeclarationFiles()
	if err != nil {
		return nil, err
	}
	return lock.Changed(files)
}

// DeclarationFiles returns, sorted, every existing file the resolution
// reads: the manifest, plugin bundle files, configured declaration files and
// every autoload.ini read for configured modules, including required ones.
func (m *Manager) DeclarationFiles() ([]string, error) {
	seen := map[string]bool{}
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			seen[p] = true
		}
	}

	manifest := m.cfg.Path(m.cfg.InstalledJSON)
	add(manifest)
	ins, err := m.Plugins()
	if err != nil {
		return nil, err
	}
	for _, in := range ins {
		if pp, ok := in.Plugin.(*plugin.PackagePlugin); ok {
			add(pp.BundlesPath())
		}
	}
	for _, d := range m.cfg.Declarations {
		p := m.cfg.Path(d)
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			add(p)
			continue
		}
		if !m.ini.Supports(d, "") {
			continue
		}
		files, err := m.ini.Files(d)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// OrderChange is an environment whose resolved order no longer matches the
// lock.
type OrderChange struct {
	Env     string   `json:"env" yaml:"env"`
	Locked  []string `json:"locked" yaml:"locked"`
	Current []string `json:"current" yaml:"current"`
}

// Drift resolves both environments again and reports those that differ from
// lock.
func (m *Manager) Drift(lock *state.Manager) ([]OrderChange, error) {
	r, err := m.Resolver()
	if err != nil {
		return nil, err
	}
	locked := lock.Lock().Bundles
	var out []OrderChange
	for _, env := range []string{config.Production, config.Development} {
		cfgs, err := r.BundleConfigs(env == config.Development)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env, err)
		}
		current := cfgs.Names()
		if !slices.Equal(current, locked[env]) {
			out = append(out, OrderChange{Env: env, Locked: locked[env], Current: current})
		}
	}
	return out, nil
}
