package platform

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	assert.NoError(t, check("windows"))

	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		err := check(goos)
		require.Error(t, err)
		assert.True(t, IsUnsupportedPlatform(err))
		assert.Contains(t, err.Error(), goos)
	}
}

func TestCheckMatchesRuntime(t *testing.T) {
	err := Check()
	if runtime.GOOS == "windows" {
		assert.NoError(t, err)
		return
	}
	assert.True(t, IsUnsupportedPlatform(fmt.Errorf("wrapped: %w", err)))
}
