/*
Package save
File: file.go
Description:
    Single-file JSON backend for the save manager.
    Writes go to a temp file in the same directory and are renamed into
    place, so a crash mid-write never corrupts the previous save.
*/

package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the save as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("save read: %w", err)
	}
	return data, nil
}

// Write replaces the file atomically: a crash mid-write leaves the previous save intact.
func (s *FileStore) Write(ctx context.Context, payload []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save write: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save write: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("save write: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("save delete: %w", err)
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("save stat: %w", err)
}

func (s *FileStore) Close() error { return nil }
