// Package directory maps raw git author identifiers to display identities.
package directory

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"gopkg.in/yaml.v3"
)

// Directory is a concurrency-safe developer lookup table.
type Directory struct {
	mu         sync.RWMutex
	developers map[string]schema.Developer
	path       string
}

var _ contract.DeveloperResolver = &Directory{} // Compile-time check

// New returns a Directory over a copy of developers.
func New(developers map[string]schema.Developer) *Directory {
	return &Directory{developers: maps.Clone(developers)}
}

// Load reads a directory file. The format is picked from the extension:
// .yaml/.yml or .toml.
func Load(path string) (*Directory, error) {
	developers, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &Directory{developers: developers, path: path}, nil
}

// Resolve implements contract.DeveloperResolver.
// Known ids render as "<en> (<id>, <kr>, <git_id>)", unknown ids as "<id> (unknown)".
func (d *Directory) Resolve(rawID string) string {
	d.mu.RLock()
	dev, ok := d.developers[rawID]
	d.mu.RUnlock()
	if !ok {
		return fmt.Sprintf("%s (unknown)", rawID)
	}
	return fmt.Sprintf("%s (%s, %s, %s)", dev.En, rawID, dev.Kr, dev.GitID)
}

// Len returns the number of known developers.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.developers)
}

// Path returns the backing file, or "" for an in-memory directory.
func (d *Directory) Path() string {
	return d.path
}

// Reload re-reads the backing file and swaps the mapping.
// On error the previous mapping stays in place.
func (d *Directory) Reload() error {
	if d.path == "" {
		return fmt.Errorf("directory has no backing file")
	}
	developers, err := readFile(d.path)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.developers = developers
	d.mu.Unlock()
	return nil
}

func readFile(path string) (map[string]schema.Developer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read developer directory: %w", err)
	}

	developers := map[string]schema.Developer{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &developers)
	case ".toml":
		err = toml.Unmarshal(data, &developers)
	default:
		return nil, fmt.Errorf("unsupported developer directory format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse developer directory %s: %w", path, err)
	}
	return developers, nil
}
