package assets

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

//go:embed default-config.yaml
var DefaultConfig []byte

//go:embed config.schema.json
var ConfigSchema []byte

//go:embed bundles.schema.json
var BundlesSchema []byte

const DefaultConfigName = "config.yaml"

// WriteDefaultConfigIfMissing writes config.yaml to targetDir if it does not exist.
func WriteDefaultConfigIfMissing(targetDir string) error {
	if targetDir == "" {
		return errors.New("empty targetDir")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(targetDir, DefaultConfigName)
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(p, DefaultConfig, 0o644)
}
