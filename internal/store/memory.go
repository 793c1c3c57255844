package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Value kinds held by the in-memory backend.
const (
	KindString = "REG_SZ"
	KindDWord  = "REG_DWORD"
)

// MemoryValue is a stored value with its kind.
type MemoryValue struct {
	Kind  string
	Str   string
	DWord uint32
}

type memNode struct {
	children map[string]*memNode
	values   map[string]MemoryValue
}

func newMemNode() *memNode {
	return &memNode{
		children: make(map[string]*memNode),
		values:   make(map[string]MemoryValue),
	}
}

// MemoryStore is an in-process Store. Operations can be made to fail by
// registering an error with FailOn, which is how tests simulate permission
// failures.
type MemoryStore struct {
	mu    sync.Mutex
	root  *memNode
	fails map[string]error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		root:  newMemNode(),
		fails: make(map[string]error),
	}
}

// FailOn makes op ("open", "create", "delete", "set", "list") fail with err
// for the node at path. Paths compare case-insensitively.
func (s *MemoryStore) FailOn(op, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[failKey(op, path)] = err
}

func failKey(op, path string) string {
	return op + "|" + strings.ToLower(path)
}

func (s *MemoryStore) failure(op, path string) error {
	if err, ok := s.fails[failKey(op, path)]; ok {
		return &StorageAccessError{Op: op, Path: path, Err: err}
	}
	return nil
}

// OpenOrCreate implements Store.
func (s *MemoryStore) OpenOrCreate(path string) (Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure("create", path); err != nil {
		return nil, err
	}
	s.walk(path, true)
	return &memHandle{store: s, path: path}, nil
}

// Open implements Store.
func (s *MemoryStore) Open(path string) (Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure("open", path); err != nil {
		return nil, err
	}
	if s.walk(path, false) == nil {
		return nil, fmt.Errorf("opening %s: %w", path, ErrNotExist)
	}
	return &memHandle{store: s, path: path}, nil
}

// Value returns the raw value at path/name, for assertions.
func (s *MemoryStore) Value(path, name string) (MemoryValue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.walk(path, false)
	if n == nil {
		return MemoryValue{}, false
	}
	v, ok := n.values[name]
	return v, ok
}

// Exists reports whether a node exists at path.
func (s *MemoryStore) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walk(path, false) != nil
}

// walk resolves path. Segment matching is case-insensitive like the
// registry. With create set, missing nodes are added.
func (s *MemoryStore) walk(path string, create bool) *memNode {
	n := s.root
	for _, seg := range strings.Split(path, `\`) {
		if seg == "" {
			continue
		}
		next, _ := lookupChild(n, seg)
		if next == nil {
			if !create {
				return nil
			}
			next = newMemNode()
			n.children[seg] = next
		}
		n = next
	}
	return n
}

func lookupChild(n *memNode, name string) (*memNode, string) {
	if c, ok := n.children[name]; ok {
		return c, name
	}
	for k, c := range n.children {
		if strings.EqualFold(k, name) {
			return c, k
		}
	}
	return nil, ""
}

// memHandle is an open Node on a MemoryStore. It resolves its path on every
// call so that deletions through other handles are observed.
type memHandle struct {
	store  *MemoryStore
	path   string
	closed bool
}

func (h *memHandle) Path() string { return h.path }

func (h *memHandle) node(op string) (*memNode, error) {
	if h.closed {
		return nil, &StorageAccessError{Op: op, Path: h.path, Err: fmt.Errorf("handle closed")}
	}
	if err := h.store.failure(op, h.path); err != nil {
		return nil, err
	}
	n := h.store.walk(h.path, false)
	if n == nil {
		return nil, &StorageAccessError{Op: op, Path: h.path, Err: ErrNotExist}
	}
	return n, nil
}

func (h *memHandle) Children() ([]string, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("list")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(n.children))
	for k := range n.children {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func (h *memHandle) OpenChild(name string) (Node, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("open")
	if err != nil {
		return nil, err
	}
	childPath := JoinPath(h.path, name)
	if err := h.store.failure("open", childPath); err != nil {
		return nil, err
	}
	if c, _ := lookupChild(n, name); c == nil {
		return nil, fmt.Errorf("opening %s: %w", childPath, ErrNotExist)
	}
	return &memHandle{store: h.store, path: childPath}, nil
}

func (h *memHandle) CreateChild(name string) (Node, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("open")
	if err != nil {
		return nil, err
	}
	childPath := JoinPath(h.path, name)
	if err := h.store.failure("create", childPath); err != nil {
		return nil, err
	}
	if c, _ := lookupChild(n, name); c == nil {
		n.children[name] = newMemNode()
	}
	return &memHandle{store: h.store, path: childPath}, nil
}

func (h *memHandle) DeleteSubtree(name string) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("open")
	if err != nil {
		return err
	}
	if err := h.store.failure("delete", JoinPath(h.path, name)); err != nil {
		return err
	}
	if _, key := lookupChild(n, name); key != "" {
		delete(n.children, key)
	}
	return nil
}

func (h *memHandle) SetString(name, value string) error {
	return h.set(name, MemoryValue{Kind: KindString, Str: value})
}

func (h *memHandle) SetDWord(name string, value uint32) error {
	return h.set(name, MemoryValue{Kind: KindDWord, DWord: value})
}

func (h *memHandle) set(name string, v MemoryValue) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("set")
	if err != nil {
		return err
	}
	n.values[name] = v
	return nil
}

func (h *memHandle) get(name, kind string) (MemoryValue, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("open")
	if err != nil {
		return MemoryValue{}, err
	}
	v, ok := n.values[name]
	if !ok {
		return MemoryValue{}, fmt.Errorf("reading %s\\%s: %w", h.path, name, ErrNotExist)
	}
	if v.Kind != kind {
		return MemoryValue{}, fmt.Errorf("reading %s\\%s: value is %s, not %s", h.path, name, v.Kind, kind)
	}
	return v, nil
}

func (h *memHandle) GetString(name string) (string, error) {
	v, err := h.get(name, KindString)
	return v.Str, err
}

func (h *memHandle) GetDWord(name string) (uint32, error) {
	v, err := h.get(name, KindDWord)
	return v.DWord, err
}

func (h *memHandle) ValueNames() ([]string, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	n, err := h.node("list")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(n.values))
	for k := range n.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func (h *memHandle) Close() error {
	h.closed = true
	return nil
}
