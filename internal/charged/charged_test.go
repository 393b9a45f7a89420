package charged

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSkipsBlankLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "negative.txt")
	content := "bad\n\n  awful  \nshock\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	set, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	require.True(t, set.Contains("bad"))
	require.True(t, set.Contains("awful"))
	require.False(t, set.Contains(""))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
}

func TestReadAppliesNormalization(t *testing.T) {
	t.Parallel()

	set, err := Read(strings.NewReader("BAD\nShock\n"), strings.ToLower)
	require.NoError(t, err)
	require.True(t, set.Contains("bad"))
	require.True(t, set.Contains("shock"))
	require.False(t, set.Contains("BAD"))
}

func TestNilSetIsEmpty(t *testing.T) {
	t.Parallel()

	var set *Set
	require.False(t, set.Contains("bad"))
	require.Equal(t, 0, set.Len())
}
