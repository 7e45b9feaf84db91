package assets

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/portside/portside/config"
)

// Store persists uploaded icon images on disk and hands back the stable URL
// path the shortcut row stores as its icon.
type Store struct {
	dir string
}

// NewStore creates the uploads directory if needed.
func NewStore(cfg config.UploadsConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the on-disk directory served at /uploads.
func (s *Store) Dir() string { return s.dir }

// Save writes the uploaded file under a uuid name, keeping only the original
// extension, and returns the public path ("/uploads/<uuid>.<ext>").
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("assets: open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("assets: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("assets: write file: %w", err)
	}
	return path.Join("/uploads", name), nil
}
