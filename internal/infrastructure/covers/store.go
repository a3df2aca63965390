package covers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists generated cover images and returns a publicly servable URL.
// baseURL is the externally visible origin of the current request, e.g.
// "http://localhost:8000"; stores that host their own content may ignore it.
// Saving the same filename twice overwrites the previous cover.
type Store interface {
	Save(ctx context.Context, filename string, data []byte, contentType, baseURL string) (string, error)
}

// DiskStore writes covers under a local directory served at {base}/covers/.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures the directory exists.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, filename string, data []byte, _ string, baseURL string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cover file: %w", err)
	}
	return fmt.Sprintf("%s/covers/%s", strings.TrimRight(baseURL, "/"), filepath.Base(filename)), nil
}

// Dir returns the directory the store writes into, for static serving.
func (s *DiskStore) Dir() string { return s.dir }
