package testutil

import (
	"testing"

	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/store"
)

// ProfilesPath is the profiles key used by tests.
const ProfilesPath = `Software\Microsoft\Office\16.0\Outlook\Profiles`

// NewTestStore creates an empty in-memory store with the profiles
// container already present.
func NewTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore()
	root, err := s.OpenOrCreate(ProfilesPath)
	if err != nil {
		t.Fatalf("creating profiles container: %v", err)
	}

	t.Cleanup(func() {
		if err := root.Close(); err != nil {
			t.Errorf("closing profiles container: %v", err)
		}
	})

	return s
}

// NewProfile builds a profile for address on the default deployment servers.
func NewProfile(t *testing.T, address, credential string) model.AccountProfile {
	t.Helper()

	p, err := model.NewAccountProfile(address, credential, model.DefaultAppConfig().Servers)
	if err != nil {
		t.Fatalf("building profile for %s: %v", address, err)
	}
	return p
}

// Snapshot returns every value below the account node at path, keyed by
// value name, with DWORDs as uint32 and strings as string.
func Snapshot(t *testing.T, s *store.MemoryStore, path string) map[string]any {
	t.Helper()

	n, err := s.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer n.Close()

	names, err := n.ValueNames()
	if err != nil {
		t.Fatalf("listing values of %s: %v", path, err)
	}

	out := make(map[string]any, len(names))
	for _, name := range names {
		v, _ := s.Value(path, name)
		if v.Kind == store.KindDWord {
			out[name] = v.DWord
		} else {
			out[name] = v.Str
		}
	}
	return out
}

// Children lists the child node names at path.
func Children(t *testing.T, s *store.MemoryStore, path string) []string {
	t.Helper()

	n, err := s.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer n.Close()

	children, err := n.Children()
	if err != nil {
		t.Fatalf("listing children of %s: %v", path, err)
	}
	return children
}
