//go:build !windows

package store

import (
	"fmt"
	"runtime"
)

// RegistryStore is unavailable off Windows.
type RegistryStore struct{}

// NewRegistryStore always fails on non-Windows systems.
func NewRegistryStore() (*RegistryStore, error) {
	return nil, fmt.Errorf("registry store is not available on %s", runtime.GOOS)
}

// OpenOrCreate implements Store.
func (s *RegistryStore) OpenOrCreate(path string) (Node, error) {
	return nil, &StorageAccessError{Op: "create", Path: path, Err: fmt.Errorf("no registry on %s", runtime.GOOS)}
}

// Open implements Store.
func (s *RegistryStore) Open(path string) (Node, error) {
	return nil, &StorageAccessError{Op: "open", Path: path, Err: fmt.Errorf("no registry on %s", runtime.GOOS)}
}

// LookupAppPath has no registry to consult off Windows.
func LookupAppPath(exe string) (string, error) {
	return "", fmt.Errorf("app path for %s: %w", exe, ErrNotExist)
}
