package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploaded files under a single directory. Names are made
// collision-resistant by suffixing the original basename with a uuid while
// keeping the original extension.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the upload directory exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the root upload directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes data under a generated name derived from originalName and
// returns that name.
func (s *LocalStore) Save(originalName string, data []byte) (string, error) {
	name := uniqueName(originalName)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return name, nil
}

// Delete removes a previously stored file. A missing file is not an error.
func (s *LocalStore) Delete(name string) error {
	if name == "" {
		return nil
	}

	// Names come back from stored URLs; never allow escaping the directory.
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", name, err)
	}
	return nil
}

func uniqueName(originalName string) string {
	base := filepath.Base(originalName)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "file"
	}
	return fmt.Sprintf("%s-%s%s", stem, uuid.NewString(), ext)
}
