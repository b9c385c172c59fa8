// Package bundle turns bundle load declarations into the load order for one
// environment.
package bundle

import (
	"fmt"

	"github.com/gopak/loadorder/internal/dependency"
)

// Resolver accumulates declarations. BundleConfigs only reads them, so
// concurrent calls are safe as long as nobody calls Add at the same time.
type Resolver struct {
	configs []*Config
}

func NewResolver() *Resolver { return &Resolver{} }

func (r *Resolver) Add(cfgs ...*Config) *Resolver {
	for _, c := range cfgs {
		if c != nil {
			r.configs = append(r.configs, c)
		}
	}
	return r
}

func (r *Resolver) Len() int { return len(r.configs) }

// BundleConfigs returns the declarations that load in the given environment,
// in dependency order. When a name is declared more than once the last
// declaration decides whether it loads.
func (r *Resolver) BundleConfigs(development bool) (Configs, error) {
	bundles := map[string]*Config{}
	for _, c := range r.configs {
		if c.LoadsIn(development) {
			bundles[c.Name] = c
		} else {
			delete(bundles, c.Name)
		}
	}

	replace := r.replaceMap()
	normalized := normalizeLoadingOrder(r.loadingOrder(), replace)
	resolved, err := dependency.OrderByDependencies(normalized)
	if err != nil {
		return nil, fmt.Errorf("resolve bundle order: %w", err)
	}

	out := make(Configs, 0, len(bundles))
	for _, name := range resolved {
		if c, ok := bundles[name]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Requirements resolves like BundleConfigs but keeps only the named bundles
// and everything they load after, directly or not. Names of replaced bundles
// select their replacement.
func (r *Resolver) Requirements(development bool, names ...string) (Configs, error) {
	all, err := r.BundleConfigs(development)
	if err != nil {
		return nil, err
	}
	replace := r.replaceMap()
	roots := make([]string, 0, len(names))
	for _, n := range names {
		roots = append(roots, canonicalName(n, replace))
	}
	keep := dependency.Closure(normalizeLoadingOrder(r.loadingOrder(), replace), roots...)

	out := make(Configs, 0, len(all))
	for _, c := range all {
		if keep[c.Name] {
			out = append(out, c)
		}
	}
	return out, nil
}

// replaceMap maps every replaced name to the bundle replacing it. The last
// registered declaration wins.
func (r *Resolver) replaceMap() map[string]string {
	replace := map[string]string{}
	for _, c := range r.configs {
		for _, name := range c.Replace {
			if name == c.Name {
				continue
			}
			replace[name] = c.Name
		}
	}
	return replace
}

func (r *Resolver) loadingOrder() *dependency.Edges {
	e := dependency.NewEdges()
	for _, c := range r.configs {
		e.Set(c.Name, c.LoadAfter...)
	}
	return e
}

// normalizeLoadingOrder drops replaced bundles and points every reference to
// a replaced bundle at its replacement. A bundle loading after a name it
// replaces ends up loading after itself and fails as a cycle. The input is
// left untouched.
func normalizeLoadingOrder(in *dependency.Edges, replace map[string]string) *dependency.Edges {
	out := dependency.NewEdges()
	for _, name := range in.Keys() {
		if _, ok := replace[name]; ok {
			continue
		}
		deps, _ := in.Get(name)
		after := make([]string, 0, len(deps))
		for _, d := range deps {
			after = append(after, canonicalName(d, replace))
		}
		out.Set(name, after...)
	}
	return out
}

// canonicalName follows replacement chains (a replaced by b replaced by c)
// until it reaches a name nobody replaces. A replacement loop stops at the
// first repeated name, so with a replacing b and b replacing a, references to
// a resolve to b and b is still loaded even though it is replaced.
func canonicalName(name string, replace map[string]string) string {
	seen := map[string]bool{name: true}
	for {
		next, ok := replace[name]
		if !ok || seen[next] {
			return name
		}
		seen[next] = true
		name = next
	}
}
