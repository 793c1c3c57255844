package provision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/nhle/clerk/internal/store"
)

// OutlookExecutable is the image name registered under App Paths.
const OutlookExecutable = "OUTLOOK.EXE"

// DependencyNotFoundError indicates that the mail client executable could
// not be found. It is fatal and never retried.
type DependencyNotFoundError struct {
	Executable string
	Searched   []string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("%s not found (searched %d locations and App Paths); is Outlook installed?",
		e.Executable, len(e.Searched))
}

// IsDependencyNotFound reports whether err (or any error in its chain) is a DependencyNotFoundError.
func IsDependencyNotFound(err error) bool {
	var dErr *DependencyNotFoundError
	return errors.As(err, &dErr)
}

// ExecutableLocator finds the mail client executable.
type ExecutableLocator interface {
	Locate() (string, error)
}

// Locator probes an ordered list of install paths, then falls back to an
// application-path registry.
type Locator struct {
	Executable string
	Candidates []string

	// Fs is consulted for existence checks.
	Fs afero.Fs

	// AppPath resolves Executable through the system App Paths registry.
	// Nil skips the fallback.
	AppPath func(exe string) (string, error)
}

// NewOutlookLocator returns a Locator for OUTLOOK.EXE over the real
// filesystem and registry.
func NewOutlookLocator(candidates []string) *Locator {
	return &Locator{
		Executable: OutlookExecutable,
		Candidates: candidates,
		Fs:         afero.NewOsFs(),
		AppPath:    store.LookupAppPath,
	}
}

// Locate returns the first existing candidate, or the App Paths entry.
func (l *Locator) Locate() (string, error) {
	for _, c := range l.Candidates {
		if l.exists(c) {
			return c, nil
		}
	}

	if l.AppPath != nil {
		if p, err := l.AppPath(l.Executable); err == nil {
			p = strings.Trim(strings.TrimSpace(p), `"`)
			if p != "" && l.exists(p) {
				return p, nil
			}
		}
	}

	return "", &DependencyNotFoundError{
		Executable: l.Executable,
		Searched:   append([]string(nil), l.Candidates...),
	}
}

func (l *Locator) exists(path string) bool {
	ok, err := afero.Exists(l.Fs, path)
	if err != nil || !ok {
		return false
	}
	dir, err := afero.IsDir(l.Fs, path)
	return err == nil && !dir
}
