package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Gallery is the media library downloaded wallpapers are committed to
type Gallery interface {
	// Save stores the local file at path under name and returns where it landed
	Save(ctx context.Context, path, name string) (string, error)
	Name() string
}

// LocalGallery keeps wallpapers in a directory on disk
type LocalGallery struct {
	dir string
}

// NewLocalGallery creates the gallery directory if needed
func NewLocalGallery(dir string) (*LocalGallery, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create gallery dir %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve gallery dir %s: %w", dir, err)
	}
	return &LocalGallery{dir: abs}, nil
}

func (g *LocalGallery) Name() string { return "local" }

func (g *LocalGallery) Save(ctx context.Context, path, name string) (string, error) {
	dest := filepath.Join(g.dir, filepath.Base(name))
	if err := CopyFile(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// CopyFile copies src to dst, writing through a temp file in dst's directory
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", dst, err)
	}
	return nil
}
