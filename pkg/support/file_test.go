package support

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cookie.json")
	require.NoError(t, os.WriteFile(file, []byte("[]"), 0644))

	assert.True(t, FileExists(file))
	assert.True(t, IsFile(file))
	assert.True(t, FileExists(dir))
	assert.False(t, IsFile(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
	assert.False(t, IsFile(filepath.Join(dir, "missing")))
}
