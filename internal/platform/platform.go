// Package platform holds the operating-system precondition checked once at
// process entry.
package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Required is the only operating system the tool provisions on.
const Required = "windows"

// UnsupportedPlatformError is returned when the host is not Windows.
type UnsupportedPlatformError struct {
	GOOS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("this application only works on Windows (running on %s)", e.GOOS)
}

// IsUnsupportedPlatform reports whether err (or any error in its chain) is an UnsupportedPlatformError.
func IsUnsupportedPlatform(err error) bool {
	var pErr *UnsupportedPlatformError
	return errors.As(err, &pErr)
}

// Check verifies the running operating system.
func Check() error {
	return check(runtime.GOOS)
}

func check(goos string) error {
	if goos != Required {
		return &UnsupportedPlatformError{GOOS: goos}
	}
	return nil
}
