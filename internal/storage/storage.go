// Package storage adapts the vault file system to the small set of
// primitives the quest engine needs. It uses an afero.Fs so the engine can
// run against the real disk or an in-memory filesystem in tests.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotExist is returned when a requested file does not exist.
var ErrNotExist = fs.ErrNotExist

// Storage is the host file-system capability consumed by the quest engine.
// Paths are slash-separated and relative to the vault root.
type Storage interface {
	ReadFile(p string) (string, error)
	WriteFile(p, content string) error
	ListFiles(folder string) ([]string, error)
	Exists(p string) (bool, error)
	MkdirAll(folder string) error
	Remove(p string) error
}

// AferoStorage implements Storage on top of an afero filesystem rooted at
// the vault directory.
type AferoStorage struct {
	fs afero.Fs
}

// New creates a Storage using the provided filesystem. The filesystem is
// expected to already be rooted at the vault (see NewOs).
func New(fsys afero.Fs) *AferoStorage {
	return &AferoStorage{fs: fsys}
}

// NewOs creates a Storage rooted at the given directory on disk.
func NewOs(root string) *AferoStorage {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// NewMem creates a Storage backed by an in-memory filesystem.
func NewMem() *AferoStorage {
	return New(afero.NewMemMapFs())
}

// Fs exposes the underlying filesystem.
func (s *AferoStorage) Fs() afero.Fs { return s.fs }

// Clean normalizes a vault path: forward slashes, no leading "./" or "/".
func Clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

// ReadFile returns the full content of the file at p.
func (s *AferoStorage) ReadFile(p string) (string, error) {
	data, err := afero.ReadFile(s.fs, Clean(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", p, ErrNotExist)
		}
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

// WriteFile creates or overwrites the file at p. The parent folder must exist.
func (s *AferoStorage) WriteFile(p, content string) error {
	if err := afero.WriteFile(s.fs, Clean(p), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// ListFiles returns the regular files directly inside folder, sorted by
// name. A missing folder yields an empty list.
func (s *AferoStorage) ListFiles(folder string) ([]string, error) {
	dir := Clean(folder)
	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("check folder %s: %w", folder, err)
	}
	if !exists {
		return []string{}, nil
	}
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	files := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		files = append(files, path.Join(dir, info.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Exists reports whether a file or folder exists at p.
func (s *AferoStorage) Exists(p string) (bool, error) {
	return afero.Exists(s.fs, Clean(p))
}

// MkdirAll creates folder and any missing parents.
func (s *AferoStorage) MkdirAll(folder string) error {
	if err := s.fs.MkdirAll(Clean(folder), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}
	return nil
}

// Remove deletes the file at p.
func (s *AferoStorage) Remove(p string) error {
	if err := s.fs.Remove(Clean(p)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, ErrNotExist)
		}
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}
