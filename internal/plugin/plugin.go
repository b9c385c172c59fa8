// Package plugin discovers manager plugins from an installed-packages
// manifest and orders them by their package dependencies.
package plugin

import (
	"fmt"
	"sort"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/bundle/parser"
)

// Plugin is whatever a Factory returns for a package. Its capabilities are
// discovered through DependentPlugin and BundlePlugin.
type Plugin any

// DependentPlugin declares packages that must load before it.
type DependentPlugin interface {
	PackageDependencies() []string
}

// BundlePlugin contributes bundle declarations.
type BundlePlugin interface {
	Bundles(p parser.Parser) (bundle.Configs, error)
}

// Factory builds the plugin declared by a manifest package.
type Factory func(pkg ManifestPackage) (Plugin, error)

// Registry maps plugin identifiers, as written in the manifest, to factories.
type Registry struct {
	factories map[string]Factory
	fallback  Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

func (r *Registry) Register(id string, f Factory) {
	r.factories[id] = f
}

// SetFallback installs the factory used for identifiers nobody registered.
func (r *Registry) SetFallback(f Factory) {
	r.fallback = f
}

func (r *Registry) Lookup(id string) (Factory, bool) {
	if f, ok := r.factories[id]; ok {
		return f, true
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Instance is a loaded plugin together with the package it came from.
type Instance struct {
	Name   string
	Plugin Plugin
}

func (i Instance) String() string {
	return fmt.Sprintf("%s (%T)", i.Name, i.Plugin)
}
