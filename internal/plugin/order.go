package plugin

import (
	"fmt"

	"github.com/gopak/loadorder/internal/dependency"
)

// Package is a plugin package and the package names it must load after.
type Package struct {
	Name         string
	Dependencies []string
}

// OrderPackages returns the package names in load order. pinnedFirst, when it
// names one of the packages, is registered before all others so that it loads
// first unless it depends on something itself. Dependencies on packages that
// are not in pkgs constrain nothing and never show up in the result.
func OrderPackages(pkgs []Package, pinnedFirst string) ([]string, error) {
	byName := make(map[string]Package, len(pkgs))
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if _, dup := byName[p.Name]; !dup {
			names = append(names, p.Name)
		}
		byName[p.Name] = p
	}
	if _, ok := byName[pinnedFirst]; ok {
		names = moveToFront(names, pinnedFirst)
	}

	deps := make(map[string][]string, len(byName))
	for n, p := range byName {
		deps[n] = p.Dependencies
	}
	resolved, err := dependency.Order(names, deps)
	if err != nil {
		return nil, fmt.Errorf("order plugin packages: %w", err)
	}

	out := make([]string, 0, len(names))
	for _, n := range resolved {
		if _, ok := byName[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func moveToFront(names []string, first string) []string {
	out := make([]string, 0, len(names))
	out = append(out, first)
	for _, n := range names {
		if n != first {
			out = append(out, n)
		}
	}
	return out
}
