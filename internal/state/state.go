// Package state keeps the lock file written by dump: the resolved plugin and
// bundle orders plus checksums of every declaration file they came from.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type Lock struct {
	GeneratedAt   string              `json:"generated_at"`
	Plugins       []string            `json:"plugins"`
	Bundles       map[string][]string `json:"bundles"`
	FileChecksums map[string]string   `json:"file_checksums,omitempty"`
}

type Manager struct {
	path string
	lock Lock
	mu   sync.RWMutex
}

// NewManager opens the lock file at path. A missing file yields an empty lock.
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path: path,
		lock: Lock{Bundles: map[string][]string{}, FileChecksums: map[string]string{}},
	}
	if err := m.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return m, nil
}

func (m *Manager) Path() string { return m.path }

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	var l Lock
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}
	if l.Bundles == nil {
		l.Bundles = map[string][]string{}
	}
	if l.FileChecksums == nil {
		l.FileChecksums = map[string]string{}
	}
	m.lock = l
	return nil
}

// Exists reports whether the lock was read from disk or saved.
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lock.GeneratedAt != ""
}

func (m *Manager) Lock() Lock {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := Lock{
		GeneratedAt:   m.lock.GeneratedAt,
		Plugins:       append([]string{}, m.lock.Plugins...),
		Bundles:       make(map[string][]string, len(m.lock.Bundles)),
		FileChecksums: make(map[string]string, len(m.lock.FileChecksums)),
	}
	for k, v := range m.lock.Bundles {
		out.Bundles[k] = append([]string{}, v...)
	}
	for k, v := range m.lock.FileChecksums {
		out.FileChecksums[k] = v
	}
	return out
}

func (m *Manager) SetPlugins(names []string) {
	m.mu.Lock()
	m.lock.Plugins = append([]string{}, names...)
	m.mu.Unlock()
}

func (m *Manager) SetBundles(env string, names []string) {
	m.mu.Lock()
	m.lock.Bundles[env] = append([]string{}, names...)
	m.mu.Unlock()
}

// Record replaces the stored checksums with those of files.
func (m *Manager) Record(files []string) error {
	sums := make(map[string]string, len(files))
	for _, f := range files {
		sum, err := FileChecksum(f)
		if err != nil {
			return err
		}
		sums[f] = sum
	}
	m.mu.Lock()
	m.lock.FileChecksums = sums
	m.mu.Unlock()
	return nil
}

// Save stamps the lock with now and writes it.
func (m *Manager) Save(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lock.GeneratedAt = now.UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(m.lock, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(m.path, append(data, '\n'), 0o644)
}

// Changed lists, sorted, the recorded files whose content differs or which
// are gone, together with files that were never recorded.
func (m *Manager) Changed(files []string) ([]string, error) {
	m.mu.RLock()
	recorded := make(map[string]string, len(m.lock.FileChecksums))
	for k, v := range m.lock.FileChecksums {
		recorded[k] = v
	}
	m.mu.RUnlock()

	check := map[string]struct{}{}
	for f := range recorded {
		check[f] = struct{}{}
	}
	for _, f := range files {
		check[f] = struct{}{}
	}

	var out []string
	for f := range check {
		expected, ok := recorded[f]
		if !ok {
			out = append(out, f)
			continue
		}
		actual, err := FileChecksum(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				out = append(out, f)
				continue
			}
			return nil, err
		}
		if actual != expected {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

// VerifyChecksums reports whether the lock is still current for files. A
// lock without checksums never verifies.
func (m *Manager) VerifyChecksums(files []string) (bool, error) {
	m.mu.RLock()
	empty := len(m.lock.FileChecksums) == 0
	m.mu.RUnlock()
	if empty {
		return false, nil
	}
	changed, err := m.Changed(files)
	if err != nil {
		return false, err
	}
	return len(changed) == 0, nil
}

func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
