package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test. It is re-executed by the launcher
// tests as a stand-in for the mail client.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("CLERK_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("CLERK_HELPER_MODE") {
	case "sleep":
		time.Sleep(10 * time.Second)
	case "fail":
		os.Exit(3)
	}
	os.Exit(0)
}

func helperArgs() []string {
	return []string{"-test.run=^TestHelperProcess$", ImportDirective, "profile.prf"}
}

func TestExecLauncherWaitsForExit(t *testing.T) {
	t.Setenv("CLERK_HELPER_PROCESS", "1")
	t.Setenv("CLERK_HELPER_MODE", "ok")

	err := NewExecLauncher(nil).Launch(context.Background(), os.Args[0], helperArgs(), 30*time.Second)
	assert.NoError(t, err)
}

func TestExecLauncherTimeoutIsNotAnError(t *testing.T) {
	t.Setenv("CLERK_HELPER_PROCESS", "1")
	t.Setenv("CLERK_HELPER_MODE", "sleep")

	start := time.Now()
	err := NewExecLauncher(nil).Launch(context.Background(), os.Args[0], helperArgs(), 100*time.Millisecond)
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecLauncherReportsExitFailure(t *testing.T) {
	t.Setenv("CLERK_HELPER_PROCESS", "1")
	t.Setenv("CLERK_HELPER_MODE", "fail")

	err := NewExecLauncher(nil).Launch(context.Background(), os.Args[0], helperArgs(), 30*time.Second)
	assert.Error(t, err)
}

func TestExecLauncherMissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-binary")

	err := NewExecLauncher(nil).Launch(context.Background(), missing, nil, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting")
}
