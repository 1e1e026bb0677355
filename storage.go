package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore holds the physical bytes of uploaded files, keyed by the
// generated stored name. Metadata lives in the files table; a blob is
// always written before its record so a crash between the two never
// leaves a record pointing at a missing blob.
type BlobStore interface {
	Save(reader io.Reader, storedName string) error
	Open(storedName string) (io.ReadCloser, error)
}

// NewStoredName generates an unguessable storage name for an upload. The
// random prefix prevents both collisions and path enumeration; the
// original name is kept in the suffix for operator convenience.
func NewStoredName(originalName string) string {
	return uuid.NewString() + "_" + filepath.Base(originalName)
}

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

func (s *LocalStorage) Save(reader io.Reader, storedName string) error {
	tempFile, err := os.CreateTemp(s.basePath, "upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())

	if _, err := io.Copy(tempFile, reader); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	return os.Rename(tempFile.Name(), filepath.Join(s.basePath, storedName))
}

func (s *LocalStorage) Open(storedName string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.basePath, storedName))
}
