package plugin

import (
	"fmt"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/bundle/parser"
)

// RegisterBundles adds the declarations of every bundle plugin to r in plugin
// load order, which makes later plugins win replace conflicts.
func RegisterBundles(instances []Instance, ps parser.Parser, r *bundle.Resolver) error {
	for _, in := range instances {
		bp, ok := in.Plugin.(BundlePlugin)
		if !ok {
			continue
		}
		cfgs, err := bp.Bundles(ps)
		if err != nil {
			return fmt.Errorf("bundles of %s: %w", in.Name, err)
		}
		r.Add(cfgs...)
	}
	return nil
}
