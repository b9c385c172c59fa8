package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/gopak/loadorder/internal/assets"
)

var schemaJSON = assets.ConfigSchema

// ErrInvalidConfig is wrapped by every schema violation.
var ErrInvalidConfig = errors.New("config schema validation failed")

// ValidateAgainstSchema checks the merged config. source names where the
// config was read from and prefixes the error.
func ValidateAgainstSchema(cfg Config, source string) error {
	if len(schemaJSON) == 0 {
		return errors.New("schema not embedded")
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(b)
	res, err := gojsonschema.Validate(schemaLoader, docLoader)
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
	return fmt.Errorf("%s: %w: %s", source, ErrInvalidConfig, strings.Join(msgs, "; "))
}
