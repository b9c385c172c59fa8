package parser

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/gopak/loadorder/internal/bundle"
)

// TOMLParser reads the "bundles" array of *.toml files. Elements are either
// strings or tables:
//
//	bundles = ["core"]
//
//	[[bundles]]
//	bundle = "debug"
//	development = true
type TOMLParser struct {
	Root   string
	Locate Locator
}

func NewTOMLParser(root string, locate Locator) *TOMLParser {
	return &TOMLParser{Root: root, Locate: locate}
}

func (p *TOMLParser) Supports(resource, typ string) bool {
	return typ == "toml" || hasExt(resource, ".toml")
}

func (p *TOMLParser) Parse(resource, typ string) (bundle.Configs, error) {
	file := resolvePath(p.Root, resource)
	b, err := readFile(file)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Bundles []entry `toml:"bundles"`
	}
	meta, err := toml.Decode(string(b), &doc)
	if err != nil {
		return nil, fmt.Errorf("file %s cannot be decoded: %w", file, err)
	}
	if !meta.IsDefined("bundles") {
		return bundle.Configs{}, nil
	}
	return buildConfigs(doc.Bundles, p.Locate, file)
}
