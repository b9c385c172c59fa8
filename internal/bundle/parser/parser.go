// Package parser reads bundle load declarations from files and legacy module
// directories.
package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopak/loadorder/internal/bundle"
)

var (
	ErrUnsupported = errors.New("unsupported resource")
	ErrMalformed   = errors.New("malformed bundle declaration")
)

// Parser turns a resource (a file path or module name) into declarations.
// typ is an optional hint such as "json" or "ini".
type Parser interface {
	Parse(resource, typ string) (bundle.Configs, error)
	Supports(resource, typ string) bool
}

// Locator reports whether an optional bundle is available. A nil Locator
// treats every bundle as available.
type Locator func(name string) bool

// DirLocator locates bundles by the presence of a directory of the same name.
func DirLocator(root string) Locator {
	return func(name string) bool {
		return isDir(filepath.Join(root, name))
	}
}

// AnyLocator locates a bundle if one of ls does.
func AnyLocator(ls ...Locator) Locator {
	return func(name string) bool {
		for _, l := range ls {
			if l != nil && l(name) {
				return true
			}
		}
		return false
	}
}

func isDir(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}

func hasExt(resource string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(resource))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func resolvePath(root, resource string) string {
	if root == "" || filepath.IsAbs(resource) {
		return resource
	}
	return filepath.Join(root, resource)
}
