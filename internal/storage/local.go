// Package storage persists uploaded images on the local filesystem and maps
// stored paths to their public /storage/ URLs.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

const propertiesDir = "properties"

type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, propertiesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// BaseDir returns the root directory served under /storage/.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

// Save writes an uploaded file under properties/ with a random name and
// returns its storage path relative to the base directory.
func (s *LocalStore) Save(file *multipart.FileHeader, ext string) (string, error) {
	rel := path.Join(propertiesDir, uuid.New().String()+ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return rel, nil
}

// Remove deletes a stored file. Missing files are not an error; Remove is
// used for best-effort cleanup after a failed batch.
func (s *LocalStore) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PublicURL maps a storage path to the URL it is served from.
func (s *LocalStore) PublicURL(rel string) string {
	return "/storage/" + rel
}
