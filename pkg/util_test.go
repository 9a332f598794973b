package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "spartacus", BytesToString([]byte("spartacus")))
	assert.Equal(t, "", BytesToString(nil))
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()

	exists, err := PathExists(dir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(dir, false)
	require.NoError(t, err)
	assert.False(t, exists)

	filePath := filepath.Join(dir, "some-file")
	require.NoError(t, os.WriteFile(filePath, []byte("content"), 0o600))

	exists, err = PathExists(filePath, false)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(filepath.Join(dir, "nope"), false)
	require.NoError(t, err)
	assert.False(t, exists)
}
