package parser

import (
	"fmt"

	"github.com/gopak/loadorder/internal/bundle"
)

// DelegatingParser hands each resource to the first parser supporting it.
type DelegatingParser struct {
	parsers []Parser
}

func NewDelegatingParser(parsers ...Parser) *DelegatingParser {
	return &DelegatingParser{parsers: parsers}
}

func (d *DelegatingParser) AddParser(p Parser) {
	d.parsers = append(d.parsers, p)
}

func (d *DelegatingParser) Parse(resource, typ string) (bundle.Configs, error) {
	for _, p := range d.parsers {
		if p.Supports(resource, typ) {
			return p.Parse(resource, typ)
		}
	}
	return nil, fmt.Errorf("%w: cannot parse %q (type: %q)", ErrUnsupported, resource, typ)
}

func (d *DelegatingParser) Supports(resource, typ string) bool {
	for _, p := range d.parsers {
		if p.Supports(resource, typ) {
			return true
		}
	}
	return false
}

// NewDefault chains the file parsers rooted at root. Module parsers are
// appended with AddParser so that they are consulted last.
func NewDefault(root string, locate Locator) *DelegatingParser {
	return NewDelegatingParser(
		NewJSONParser(root, locate),
		NewYAMLParser(root, locate),
		NewTOMLParser(root, locate),
	)
}
