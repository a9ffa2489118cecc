// Package storage provides file system access to the products file.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jacksmith/pm/internal/model"
)

// DefaultFile is the products file used when nothing else is configured.
const DefaultFile = "products.json"

// ReadError indicates the products file exists but could not be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError indicates the products file could not be overwritten.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Storage provides access to a single products file.
// It keeps no state besides the path: every Load re-reads the file.
type Storage struct {
	path string
}

// New returns a Storage for the products file at path.
// The file does not need to exist yet.
func New(path string) *Storage {
	if path == "" {
		path = DefaultFile
	}
	return &Storage{path: path}
}

// Path returns the path to the products file.
func (s *Storage) Path() string {
	return s.path
}

// Exists reports whether the products file is present.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads every product from the file in storage order.
// A missing file is the initial state and yields an empty list.
func (s *Storage) Load() ([]model.Product, error) {
	products, err := model.LoadProducts(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Product{}, nil
		}
		return nil, &ReadError{Path: s.path, Err: err}
	}
	return products, nil
}

// Save overwrites the file with the given products.
// The write is not atomic: a crash mid-write can leave a truncated file.
func (s *Storage) Save(products []model.Product) error {
	if err := model.SaveProducts(s.path, products); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}
