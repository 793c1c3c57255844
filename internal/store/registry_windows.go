//go:build windows

package store

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// RegistryStore is a Store rooted at a predefined registry key.
type RegistryStore struct {
	root registry.Key
}

// NewRegistryStore returns a store rooted at HKEY_CURRENT_USER.
func NewRegistryStore() (*RegistryStore, error) {
	return &RegistryStore{root: registry.CURRENT_USER}, nil
}

// OpenOrCreate implements Store.
func (s *RegistryStore) OpenOrCreate(path string) (Node, error) {
	k, _, err := registry.CreateKey(s.root, path, registry.ALL_ACCESS)
	if err != nil {
		return nil, &StorageAccessError{Op: "create", Path: path, Err: err}
	}
	return &regNode{key: k, path: path}, nil
}

// Open implements Store.
func (s *RegistryStore) Open(path string) (Node, error) {
	k, err := registry.OpenKey(s.root, path, registry.ALL_ACCESS)
	if err != nil {
		return nil, wrapOpenErr(path, err)
	}
	return &regNode{key: k, path: path}, nil
}

func wrapOpenErr(path string, err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("opening %s: %w", path, ErrNotExist)
	}
	return &StorageAccessError{Op: "open", Path: path, Err: err}
}

type regNode struct {
	key  registry.Key
	path string
}

func (n *regNode) Path() string { return n.path }

func (n *regNode) Children() ([]string, error) {
	names, err := n.key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, &StorageAccessError{Op: "list", Path: n.path, Err: err}
	}
	return names, nil
}

func (n *regNode) OpenChild(name string) (Node, error) {
	childPath := JoinPath(n.path, name)
	k, err := registry.OpenKey(n.key, name, registry.ALL_ACCESS)
	if err != nil {
		return nil, wrapOpenErr(childPath, err)
	}
	return &regNode{key: k, path: childPath}, nil
}

func (n *regNode) CreateChild(name string) (Node, error) {
	childPath := JoinPath(n.path, name)
	k, _, err := registry.CreateKey(n.key, name, registry.ALL_ACCESS)
	if err != nil {
		return nil, &StorageAccessError{Op: "create", Path: childPath, Err: err}
	}
	return &regNode{key: k, path: childPath}, nil
}

func (n *regNode) DeleteSubtree(name string) error {
	if err := deleteTree(n.key, name); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return &StorageAccessError{Op: "delete", Path: JoinPath(n.path, name), Err: err}
	}
	return nil
}

// deleteTree removes parent\name depth-first; registry.DeleteKey only
// removes keys without subkeys.
func deleteTree(parent registry.Key, name string) error {
	k, err := registry.OpenKey(parent, name, registry.ALL_ACCESS)
	if err != nil {
		return err
	}

	subkeys, err := k.ReadSubKeyNames(-1)
	if err != nil {
		k.Close()
		return err
	}
	for _, sub := range subkeys {
		if err := deleteTree(k, sub); err != nil {
			k.Close()
			return err
		}
	}
	k.Close()

	return registry.DeleteKey(parent, name)
}

func (n *regNode) SetString(name, value string) error {
	if err := n.key.SetStringValue(name, value); err != nil {
		return &StorageAccessError{Op: "set", Path: JoinPath(n.path, name), Err: err}
	}
	return nil
}

func (n *regNode) SetDWord(name string, value uint32) error {
	if err := n.key.SetDWordValue(name, value); err != nil {
		return &StorageAccessError{Op: "set", Path: JoinPath(n.path, name), Err: err}
	}
	return nil
}

func (n *regNode) GetString(name string) (string, error) {
	v, _, err := n.key.GetStringValue(name)
	if err != nil {
		return "", wrapOpenErr(JoinPath(n.path, name), err)
	}
	return v, nil
}

func (n *regNode) GetDWord(name string) (uint32, error) {
	v, _, err := n.key.GetIntegerValue(name)
	if err != nil {
		return 0, wrapOpenErr(JoinPath(n.path, name), err)
	}
	return uint32(v), nil
}

func (n *regNode) ValueNames() ([]string, error) {
	names, err := n.key.ReadValueNames(-1)
	if err != nil {
		return nil, &StorageAccessError{Op: "list", Path: n.path, Err: err}
	}
	return names, nil
}

func (n *regNode) Close() error {
	return n.key.Close()
}

// LookupAppPath resolves an executable through the system-wide
// "App Paths" registration under HKEY_LOCAL_MACHINE.
func LookupAppPath(exe string) (string, error) {
	path := `SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\` + exe
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return "", wrapOpenErr(path, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue("")
	if err != nil {
		return "", wrapOpenErr(path, err)
	}
	return v, nil
}
