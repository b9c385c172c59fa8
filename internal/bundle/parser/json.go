package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/gopak/loadorder/internal/assets"
	"github.com/gopak/loadorder/internal/bundle"
)

// JSONParser reads declaration arrays from *.json files.
type JSONParser struct {
	Root   string
	Locate Locator
}

func NewJSONParser(root string, locate Locator) *JSONParser {
	return &JSONParser{Root: root, Locate: locate}
}

func (p *JSONParser) Supports(resource, typ string) bool {
	return typ == "json" || hasExt(resource, ".json")
}

func (p *JSONParser) Parse(resource, typ string) (bundle.Configs, error) {
	file := resolvePath(p.Root, resource)
	b, err := readFile(file)
	if err != nil {
		return nil, err
	}
	if err := ValidateDeclarations(b); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	var entries []entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("file %s cannot be decoded: %w", file, err)
	}
	return buildConfigs(entries, p.Locate, file)
}

// ValidateDeclarations checks a JSON declaration document against the
// embedded bundles schema.
func ValidateDeclarations(doc []byte) error {
	if !json.Valid(doc) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(assets.BundlesSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	var msgs []string
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
}

func readFile(file string) ([]byte, error) {
	st, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("%s is not a file: %w", file, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is not a file", file)
	}
	return os.ReadFile(file)
}
