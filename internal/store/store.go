// Package store abstracts the per-user hierarchical configuration store the
// target mail client keeps its profiles in. On Windows it is backed by the
// registry under HKEY_CURRENT_USER; tests use the in-memory backend.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotExist is returned when a node or value is absent.
var ErrNotExist = errors.New("node or value does not exist")

// StorageAccessError indicates that a node could not be opened, created,
// enumerated, or written.
type StorageAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageAccessError) Error() string {
	return fmt.Sprintf("storage access error (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageAccessError) Unwrap() error {
	return e.Err
}

// IsStorageAccessError reports whether err (or any error in its chain) is a StorageAccessError.
func IsStorageAccessError(err error) bool {
	var sErr *StorageAccessError
	return errors.As(err, &sErr)
}

// Store opens nodes by backslash-separated path relative to the store root.
type Store interface {
	// OpenOrCreate opens the node at path, creating it and any missing
	// ancestors.
	OpenOrCreate(path string) (Node, error)

	// Open opens an existing node. It returns an error wrapping
	// ErrNotExist if the node is absent.
	Open(path string) (Node, error)
}

// Node is an open handle on one key of the store. Handles must be closed.
type Node interface {
	Path() string

	// Children lists the names of the direct child nodes.
	Children() ([]string, error)

	// OpenChild opens an existing direct child.
	OpenChild(name string) (Node, error)

	// CreateChild opens the direct child, creating it if missing.
	CreateChild(name string) (Node, error)

	// DeleteSubtree removes the direct child and everything beneath it.
	// Deleting an absent child is not an error.
	DeleteSubtree(name string) error

	SetString(name, value string) error
	SetDWord(name string, value uint32) error

	// GetString and GetDWord return an error wrapping ErrNotExist for
	// absent values.
	GetString(name string) (string, error)
	GetDWord(name string) (uint32, error)

	ValueNames() ([]string, error)

	Close() error
}

// JoinPath joins path segments with the store separator.
func JoinPath(elem ...string) string {
	out := ""
	for _, e := range elem {
		if e == "" {
			continue
		}
		if out != "" {
			out += `\`
		}
		out += e
	}
	return out
}

// HasChild reports whether n has a direct child named name. Names compare
// case-insensitively, as registry key names do.
func HasChild(n Node, name string) (bool, error) {
	children, err := n.Children()
	if err != nil {
		return false, err
	}
	for _, c := range children {
		if strings.EqualFold(c, name) {
			return true, nil
		}
	}
	return false, nil
}
