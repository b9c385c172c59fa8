package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gopak/loadorder/internal/bundle"
	"github.com/gopak/loadorder/internal/logging"
)

// entry is one element of a declaration file. A bare string is shorthand for
// {bundle: <string>}.
type entry struct {
	Bundle      string   `json:"bundle" yaml:"bundle" toml:"bundle"`
	Optional    bool     `json:"optional" yaml:"optional" toml:"optional"`
	Replace     []string `json:"replace" yaml:"replace" toml:"replace"`
	Development *bool    `json:"development" yaml:"development" toml:"development"`
	LoadAfter   []string `json:"load-after" yaml:"load-after" toml:"load-after"`
}

type entryFields entry

func (e *entry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		*e = entry{}
		return json.Unmarshal(b, &e.Bundle)
	}
	var aux entryFields
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*e = entry(aux)
	return nil
}

func (e *entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*e = entry{Bundle: value.Value}
		return nil
	case yaml.MappingNode:
		var aux entryFields
		if err := value.Decode(&aux); err != nil {
			return err
		}
		*e = entry(aux)
		return nil
	default:
		return fmt.Errorf("invalid bundle node kind: %d", value.Kind)
	}
}

// UnmarshalTOML accepts either a string or an inline/array table.
func (e *entry) UnmarshalTOML(v any) error {
	*e = entry{}
	switch t := v.(type) {
	case string:
		e.Bundle = t
		return nil
	case map[string]any:
		if s, ok := t["bundle"].(string); ok {
			e.Bundle = s
		}
		if b, ok := t["optional"].(bool); ok {
			e.Optional = b
		}
		if b, ok := t["development"].(bool); ok {
			e.Development = &b
		}
		var err error
		if e.Replace, err = tomlStrings(t["replace"], "replace"); err != nil {
			return err
		}
		if e.LoadAfter, err = tomlStrings(t["load-after"], "load-after"); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("invalid bundle value of type %T", v)
	}
}

func tomlStrings(v any, key string) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of strings", key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected a list of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// buildConfigs converts entries in file order. Optional bundles the locator
// cannot find are skipped.
func buildConfigs(entries []entry, locate Locator, source string) (bundle.Configs, error) {
	configs := make(bundle.Configs, 0, len(entries))
	for i, e := range entries {
		if e.Bundle == "" {
			return nil, fmt.Errorf("%w: missing bundle name in %s (entry %d)", ErrMalformed, source, i)
		}
		if e.Optional && locate != nil && !locate(e.Bundle) {
			logging.Debug(fmt.Sprintf("%s: skipping optional bundle %s", source, e.Bundle))
			continue
		}
		cfg := bundle.NewConfig(e.Bundle)
		cfg.Replace = append(cfg.Replace, e.Replace...)
		cfg.LoadAfter = append(cfg.LoadAfter, e.LoadAfter...)
		if e.Development != nil {
			if *e.Development {
				cfg.LoadInProduction = false
			} else {
				cfg.LoadInDevelopment = false
			}
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
