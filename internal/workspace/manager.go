// Package workspace resolves the files a bridge session reads and writes
// relative to the project root.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultTemplate = "tests/template.pdf"
	DefaultOutput   = "tests/filled/filled_form.pdf"
)

type Manager struct {
	basePath string
}

func NewManager(basePath string) (*Manager, error) {
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		basePath = wd
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", basePath, err)
	}
	return &Manager{basePath: abs}, nil
}

func (m *Manager) Root() string {
	return m.basePath
}

// Resolve leaves absolute paths alone and anchors relative ones at the root.
func (m *Manager) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.basePath, path)
}

// EnsureDir creates the parent directory of path.
func (m *Manager) EnsureDir(path string) error {
	dir := filepath.Dir(m.Resolve(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Check reports whether the root exists and is a directory.
func (m *Manager) Check() error {
	stat, err := os.Stat(m.basePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("base path does not exist: %s", m.basePath)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", m.basePath, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("base path is not a directory: %s", m.basePath)
	}
	return nil
}

func (m *Manager) FileExists(path string) bool {
	stat, err := os.Stat(m.Resolve(path))
	return err == nil && !stat.IsDir()
}
