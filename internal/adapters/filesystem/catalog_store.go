package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/example/testhub/internal/ports/secondary"
)

// CatalogStore implements secondary.CatalogRepository as a JSON file.
type CatalogStore struct {
	path string
}

var _ secondary.CatalogRepository = (*CatalogStore)(nil)

// NewCatalogStore creates a catalog store at path.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// Load returns the catalog, or an empty catalog if the file does not exist.
func (s *CatalogStore) Load(ctx context.Context) (*secondary.Catalog, error) {
	c := &secondary.Catalog{RedTag: []string{}, ProcessFlow: []string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return c, nil
}

// Save replaces the catalog atomically.
func (s *CatalogStore) Save(ctx context.Context, catalog *secondary.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
