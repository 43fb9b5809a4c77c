package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const partialSuffix = ".partial"

// LocalStorage keeps rendered exports below a single root directory.
type LocalStorage struct {
	root string
	now  func() time.Time
}

// NewLocalStorage creates root when missing.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		root = "./exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create export root %s: %w", root, err)
	}
	return &LocalStorage{root: root, now: time.Now}, nil
}

// Save writes through a sibling temp file that is renamed into place.
func (s *LocalStorage) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := s.locate(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*"+partialSuffix)
	if err != nil {
		return "", fmt.Errorf("create export temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write export %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("flush export %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("publish export %s: %w", filename, err)
	}
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(filename))), nil
}

// Open returns ErrObjectNotFound when the export is gone.
func (s *LocalStorage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	target, err := s.locate(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", filename, err)
	}
	return f, nil
}

// Delete is idempotent.
func (s *LocalStorage) Delete(ctx context.Context, filename string) error {
	target, err := s.locate(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove export %s: %w", filename, err)
	}
	return nil
}

// CleanupOlderThan removes exports last modified before now-ttl, including
// temp files abandoned by an interrupted Save.
func (s *LocalStorage) CleanupOlderThan(ctx context.Context, ttl time.Duration) ([]string, error) {
	cutoff := s.now().Add(-ttl)
	var removed []string
	walkErr := filepath.WalkDir(s.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if strings.HasSuffix(p, partialSuffix) {
			return nil
		}
		if rel, err := filepath.Rel(s.root, p); err == nil {
			removed = append(removed, filepath.ToSlash(rel))
		}
		return nil
	})
	if walkErr != nil {
		return removed, fmt.Errorf("sweep export root: %w", walkErr)
	}
	return removed, nil
}

func (s *LocalStorage) locate(filename string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(filename))
	if rel == "." || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export path %q escapes storage root", filename)
	}
	return filepath.Join(s.root, rel), nil
}
