package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gopak/loadorder/internal/bundle"
)

// YAMLParser reads declaration sequences from *.yaml and *.yml files.
type YAMLParser struct {
	Root   string
	Locate Locator
}

func NewYAMLParser(root string, locate Locator) *YAMLParser {
	return &YAMLParser{Root: root, Locate: locate}
}

func (p *YAMLParser) Supports(resource, typ string) bool {
	return typ == "yaml" || hasExt(resource, ".yaml", ".yml")
}

func (p *YAMLParser) Parse(resource, typ string) (bundle.Configs, error) {
	file := resolvePath(p.Root, resource)
	b, err := readFile(file)
	if err != nil {
		return nil, err
	}
	var entries []entry
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("file %s cannot be decoded: %w", file, err)
	}
	return buildConfigs(entries, p.Locate, file)
}
