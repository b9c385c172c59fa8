package plugin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var ErrManifestNotFound = errors.New("installed.json was not found")

// ManifestPackage is one entry of a Composer-style installed.json.
type ManifestPackage struct {
	Name        string            `json:"name"`
	Version     string            `json:"version,omitempty"`
	Require     map[string]string `json:"require,omitempty"`
	Extra       map[string]any    `json:"extra,omitempty"`
	InstallPath string            `json:"install-path,omitempty"`
}

// PluginID returns the plugin identifier stored under extra[key].
func (p ManifestPackage) PluginID(key string) (string, bool) {
	v, ok := p.Extra[key]
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// Requires returns the required package names, sorted.
func (p ManifestPackage) Requires() []string {
	out := make([]string, 0, len(p.Require))
	for name := range p.Require {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ReadManifest reads installed.json in either the flat array layout or the
// {"packages": [...]} layout.
func ReadManifest(path string) ([]ManifestPackage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %q", ErrManifestNotFound, path)
		}
		return nil, err
	}
	pkgs, err := decodeManifest(b)
	if err != nil {
		return nil, fmt.Errorf("file %q cannot be decoded: %w", path, err)
	}
	return pkgs, nil
}

func decodeManifest(b []byte) ([]ManifestPackage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty document")
	}
	if b[0] == '[' {
		var pkgs []ManifestPackage
		if err := json.Unmarshal(b, &pkgs); err != nil {
			return nil, err
		}
		return pkgs, nil
	}
	var doc struct {
		Packages []ManifestPackage `json:"packages"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc.Packages, nil
}

// PackageDir returns the directory a package was installed to. manifestPath
// is the installed.json the package was read from.
func PackageDir(pkg ManifestPackage, manifestPath string) string {
	base := filepath.Dir(manifestPath)
	if pkg.InstallPath != "" {
		if filepath.IsAbs(pkg.InstallPath) {
			return pkg.InstallPath
		}
		return filepath.Join(base, pkg.InstallPath)
	}
	// vendor/composer/installed.json -> vendor/<name>
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(pkg.Name))
}
