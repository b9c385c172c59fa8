package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/bundle/parser"
)

const installedV2 = `{
  "packages": [
    {
      "name": "vendor/news",
      "require": {"contao/manager-bundle": "^4.0", "php": ">=7.1"},
      "extra": {"contao-manager-plugin": "Vendor\\News\\Plugin"},
      "install-path": "../vendor/news"
    },
    {
      "name": "vendor/library",
      "require": {"php": ">=7.1"}
    },
    {
      "name": "contao/manager-bundle",
      "extra": {"contao-manager-plugin": "Contao\\ManagerBundle\\Plugin"},
      "install-path": "../contao/manager-bundle"
    },
    {
      "name": "vendor/calendar",
      "require": {"vendor/news": "^1.0"},
      "extra": {"contao-manager-plugin": "Vendor\\Calendar\\Plugin"},
      "install-path": "../vendor/calendar"
    }
  ]
}`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "vendor", "composer", "installed.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadManifest_Layouts(t *testing.T) {
	v2, err := ReadManifest(writeManifest(t, installedV2))
	require.NoError(t, err)
	require.Len(t, v2, 4)

	v1, err := ReadManifest(writeManifest(t, `[{"name": "a/b", "extra": {"k": "id"}}]`))
	require.NoError(t, err)
	require.Len(t, v1, 1)
	id, ok := v1[0].PluginID("k")
	require.True(t, ok)
	require.Equal(t, "id", id)
}

func TestReadManifest_Errors(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "installed.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "was not found")
	require.ErrorIs(t, err, ErrManifestNotFound)

	_, err = ReadManifest(writeManifest(t, `{"packages": [`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot be decoded")
}

func TestPackageDir(t *testing.T) {
	manifest := filepath.Join("/p", "vendor", "composer", "installed.json")
	require.Equal(t, filepath.Join("/p", "vendor", "a", "b"),
		PackageDir(ManifestPackage{Name: "a/b"}, manifest))
	require.Equal(t, filepath.Join("/p", "vendor", "x"),
		PackageDir(ManifestPackage{Name: "a/b", InstallPath: "../x"}, manifest))
}

type namedPlugin struct {
	id   string
	deps []string
}

func (n *namedPlugin) PackageDependencies() []string { return n.deps }

func TestLoader_OrdersPlugins(t *testing.T) {
	manifest := writeManifest(t, installedV2)
	reg := NewRegistry()
	reg.SetFallback(PackageFactory(manifest, "bundles.json"))

	l := NewLoader(Options{
		Manifest:    manifest,
		Key:         "contao-manager-plugin",
		PinnedFirst: "contao/manager-bundle",
		Registry:    reg,
	})
	ins, err := l.Instances()
	require.NoError(t, err)

	var names []string
	for _, in := range ins {
		names = append(names, in.Name)
	}
	require.Equal(t, []string{"contao/manager-bundle", "vendor/news", "vendor/calendar"}, names)
}

func TestLoader_UnknownPlugin(t *testing.T) {
	manifest := writeManifest(t, installedV2)
	reg := NewRegistry()
	reg.Register("Other\\Plugin", func(pkg ManifestPackage) (Plugin, error) { return &namedPlugin{}, nil })
	l := NewLoader(Options{Manifest: manifest, Key: "contao-manager-plugin", Registry: reg})
	_, err := l.Instances()
	require.Error(t, err)
	require.Contains(t, err.Error(), "was not found")
	require.Contains(t, err.Error(), `registered: [Other\Plugin]`)
}

func TestLoader_RegisteredFactoriesAndApp(t *testing.T) {
	manifest := writeManifest(t, installedV2)
	reg := NewRegistry()
	for _, id := range []string{`Vendor\News\Plugin`, `Contao\ManagerBundle\Plugin`, `Vendor\Calendar\Plugin`} {
		reg.Register(id, func(pkg ManifestPackage) (Plugin, error) {
			return &namedPlugin{id: pkg.Name}, nil
		})
	}
	reg.Register("app", func(pkg ManifestPackage) (Plugin, error) {
		return &namedPlugin{id: pkg.Name, deps: []string{"vendor/news"}}, nil
	})
	require.Equal(t, []string{`Contao\ManagerBundle\Plugin`, `Vendor\Calendar\Plugin`, `Vendor\News\Plugin`, "app"}, reg.IDs())

	l := NewLoader(Options{
		Manifest:    manifest,
		Key:         "contao-manager-plugin",
		PinnedFirst: "contao/manager-bundle",
		AppPlugin:   "app",
		Registry:    reg,
	})
	ins, err := l.Instances()
	require.NoError(t, err)
	// namedPlugin declares no dependencies here, so manifest order is kept
	require.Len(t, ins, 4)
	require.Equal(t, "contao/manager-bundle", ins[0].Name)
	require.Equal(t, AppName, ins[3].Name)

	rev, err := l.InstancesOf(func(p Plugin) bool { _, ok := p.(DependentPlugin); return ok }, true)
	require.NoError(t, err)
	require.Equal(t, AppName, rev[0].Name)
	require.Equal(t, "contao/manager-bundle", rev[len(rev)-1].Name)
}

func TestLoader_ReadsManifestOnce(t *testing.T) {
	manifest := writeManifest(t, installedV2)
	reg := NewRegistry()
	reg.SetFallback(PackageFactory(manifest, ""))
	l := NewLoader(Options{Manifest: manifest, Key: "contao-manager-plugin", Registry: reg})

	first, err := l.Instances()
	require.NoError(t, err)
	require.NoError(t, os.Remove(manifest))
	second, err := l.Instances()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRegisterBundles(t *testing.T) {
	manifest := writeManifest(t, installedV2)
	vendor := filepath.Dir(filepath.Dir(manifest))
	require.NoError(t, os.MkdirAll(filepath.Join(vendor, "vendor", "news"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendor, "vendor", "news", "bundles.json"),
		[]byte(`[{"bundle": "NewsBundle", "load-after": ["CoreBundle"]}]`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(vendor, "contao", "manager-bundle"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendor, "contao", "manager-bundle", "bundles.json"),
		[]byte(`["CoreBundle"]`), 0o644))

	reg := NewRegistry()
	reg.SetFallback(PackageFactory(manifest, "bundles.json"))
	l := NewLoader(Options{Manifest: manifest, Key: "contao-manager-plugin", PinnedFirst: "contao/manager-bundle", Registry: reg})

	bundlePlugins, err := l.InstancesOf(IsBundlePlugin, false)
	require.NoError(t, err)
	require.Len(t, bundlePlugins, 3)

	r := bundle.NewResolver()
	require.NoError(t, RegisterBundles(bundlePlugins, parser.NewDefault("", nil), r))
	require.Equal(t, 2, r.Len())

	cfgs, err := r.BundleConfigs(false)
	require.NoError(t, err)
	require.Equal(t, []string{"CoreBundle", "NewsBundle"}, cfgs.Names())
}

func TestLoader_OptionalManifest(t *testing.T) {
	root := t.TempDir()
	reg := NewRegistry()
	reg.Register("app", func(pkg ManifestPackage) (Plugin, error) {
		return NewPackagePlugin(pkg, root, "bundles.json"), nil
	})
	l := NewLoader(Options{
		Manifest:         filepath.Join(root, "vendor", "composer", "installed.json"),
		Key:              "contao-manager-plugin",
		AppPlugin:        "app",
		Registry:         reg,
		ManifestOptional: true,
	})
	ins, err := l.Instances()
	require.NoError(t, err)
	require.Len(t, ins, 1)
	require.Equal(t, AppName, ins[0].Name)
}
