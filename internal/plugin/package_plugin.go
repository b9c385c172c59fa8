package plugin

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/bundle/parser"
)

// PackagePlugin is the plugin of a package that carries no code of its own:
// it depends on every package it requires and takes its bundle declarations
// from a file inside the package directory.
type PackagePlugin struct {
	pkg         ManifestPackage
	dir         string
	bundlesFile string
}

func NewPackagePlugin(pkg ManifestPackage, dir, bundlesFile string) *PackagePlugin {
	return &PackagePlugin{pkg: pkg, dir: dir, bundlesFile: bundlesFile}
}

// PackageFactory builds PackagePlugins for packages read from manifestPath.
func PackageFactory(manifestPath, bundlesFile string) Factory {
	return func(pkg ManifestPackage) (Plugin, error) {
		return NewPackagePlugin(pkg, PackageDir(pkg, manifestPath), bundlesFile), nil
	}
}

func (p *PackagePlugin) PackageDependencies() []string {
	return p.pkg.Requires()
}

// BundlesPath is the declaration file of the package, or "" when the package
// has none.
func (p *PackagePlugin) BundlesPath() string {
	if p.bundlesFile == "" {
		return ""
	}
	path := filepath.Join(p.dir, p.bundlesFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return path
}

func (p *PackagePlugin) Bundles(ps parser.Parser) (bundle.Configs, error) {
	path := p.BundlesPath()
	if path == "" {
		return nil, nil
	}
	return ps.Parse(path, "")
}
