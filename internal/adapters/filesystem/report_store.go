// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
	"github.com/example/testhub/internal/ports/secondary"
)

// ImageDir is the directory under the reports root holding attached images.
const ImageDir = "images"

// jsonIndent matches the indentation of documents written by every station.
const jsonIndent = "    "

// ReportStore implements secondary.ReportRepository with one pretty-printed
// JSON document per board identity directly under the reports root.
type ReportStore struct {
	root string
}

var _ secondary.ReportRepository = (*ReportStore)(nil)

// NewReportStore creates a report store rooted at root.
func NewReportStore(root string) *ReportStore {
	return &ReportStore{root: root}
}

// Root returns the reports root directory.
func (s *ReportStore) Root() string {
	return s.root
}

// Path returns the canonical document path for an identity.
func (s *ReportStore) Path(id identity.BoardIdentity) string {
	return filepath.Join(s.root, id.Filename())
}

// Load retrieves the document for an identity.
func (s *ReportStore) Load(ctx context.Context, id identity.BoardIdentity) (*report.ReportFile, error) {
	if err := identity.CanStore(id).Error(); err != nil {
		return nil, err
	}
	return s.read(s.Path(id))
}

// LoadFile retrieves a document by its filename under the root.
func (s *ReportStore) LoadFile(ctx context.Context, filename string) (*report.ReportFile, error) {
	if filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return nil, fmt.Errorf("invalid report filename %q", filename)
	}
	return s.read(filepath.Join(s.root, filename))
}

func (s *ReportStore) read(path string) (*report.ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", secondary.ErrNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}

	var doc report.ReportFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", secondary.ErrStoreIO, filepath.Base(path), err)
	}
	doc = doc.Normalize()
	return &doc, nil
}

// Save replaces the document for an identity via write-to-temp-then-rename,
// so a failed write never leaves a truncated document behind.
func (s *ReportStore) Save(ctx context.Context, id identity.BoardIdentity, doc *report.ReportFile) error {
	if err := identity.CanStore(id).Error(); err != nil {
		return err
	}
	tmp, err := s.writeTemp(id.Filename(), doc)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, s.Path(id)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	return nil
}

// Create writes a new document, failing if one is already present.
// The temp file is hard-linked into place so creation is exclusive.
func (s *ReportStore) Create(ctx context.Context, id identity.BoardIdentity, doc *report.ReportFile) error {
	if err := identity.CanStore(id).Error(); err != nil {
		return err
	}
	tmp, err := s.writeTemp(id.Filename(), doc)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, s.Path(id)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", secondary.ErrAlreadyExists, id.Filename())
		}
		return fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	return nil
}

// Exists reports whether a document is stored for the identity.
func (s *ReportStore) Exists(ctx context.Context, id identity.BoardIdentity) (bool, error) {
	_, err := os.Stat(s.Path(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
}

// List returns the .json filenames directly under the root, sorted.
// Subdirectories are not descended into. A missing root lists nothing.
func (s *ReportStore) List(ctx context.Context, filter string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}

	needle := strings.ToLower(filter)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// StoreImage copies srcPath into the image directory. When name is taken a
// numeric suffix is added; the stored filename is returned.
func (s *ReportStore) StoreImage(ctx context.Context, srcPath, name string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.root, ImageDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	defer os.Remove(tmp.Name())
	_ = tmp.Chmod(0644)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: copy image: %v", secondary.ErrStoreIO, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; ; i++ {
		err := os.Link(tmp.Name(), filepath.Join(dir, candidate))
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

// writeTemp serializes doc into a synced temp file beside the final path.
func (s *ReportStore) writeTemp(filename string, doc *report.ReportFile) (string, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}

	data, err := json.MarshalIndent(doc.Normalize(), "", jsonIndent)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", secondary.ErrStoreIO, err)
	}
	data = append(data, '\n')

	f, err := os.CreateTemp(s.root, "."+filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	_ = f.Chmod(0644)
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: %v", secondary.ErrStoreIO, err)
	}
	return f.Name(), nil
}
