package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverTextFiles_EmptyArgs(t *testing.T) {
	files, err := discoverTextFiles([]string{}, false, []string{"*.txt"}, []string{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverTextFiles_SingleFile(t *testing.T) {
	tempDir := t.TempDir()

	txtFile := filepath.Join(tempDir, "run.txt")
	pngFile := filepath.Join(tempDir, "run.png")

	require.NoError(t, os.WriteFile(txtFile, []byte("거리 8.29 km"), 0o600))
	require.NoError(t, os.WriteFile(pngFile, []byte("fake png"), 0o600))

	files, err := discoverTextFiles([]string{txtFile}, false, []string{"*.txt"}, []string{})
	require.NoError(t, err)
	assert.Equal(t, []string{txtFile}, files)
}

func TestDiscoverTextFiles_Directory(t *testing.T) {
	tempDir := t.TempDir()

	txtFile := filepath.Join(tempDir, "morning.txt")
	otherTxt := filepath.Join(tempDir, "evening.txt")
	pngFile := filepath.Join(tempDir, "screenshot.png")

	require.NoError(t, os.WriteFile(txtFile, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(otherTxt, []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(pngFile, []byte("c"), 0o600))

	files, err := discoverTextFiles([]string{tempDir}, false, []string{"*.txt"}, []string{})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, txtFile)
	assert.Contains(t, files, otherTxt)
}

func TestDiscoverTextFiles_Recursive(t *testing.T) {
	tempDir := t.TempDir()
	subDir := filepath.Join(tempDir, "july")
	require.NoError(t, os.MkdirAll(subDir, 0o750))

	topFile := filepath.Join(tempDir, "top.txt")
	nestedFile := filepath.Join(subDir, "nested.txt")
	require.NoError(t, os.WriteFile(topFile, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(nestedFile, []byte("b"), 0o600))

	flat, err := discoverTextFiles([]string{tempDir}, false, []string{"*.txt"}, []string{})
	require.NoError(t, err)
	assert.Equal(t, []string{topFile}, flat)

	deep, err := discoverTextFiles([]string{tempDir}, true, []string{"*.txt"}, []string{})
	require.NoError(t, err)
	assert.Len(t, deep, 2)
	assert.Contains(t, deep, nestedFile)
}

func TestDiscoverTextFiles_ExcludePatterns(t *testing.T) {
	tempDir := t.TempDir()

	keep := filepath.Join(tempDir, "run.txt")
	skip := filepath.Join(tempDir, "run_raw.txt")
	require.NoError(t, os.WriteFile(keep, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(skip, []byte("b"), 0o600))

	files, err := discoverTextFiles([]string{tempDir}, false, []string{"*.txt"}, []string{"*_raw.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)
}

func TestDiscoverTextFiles_MissingPath(t *testing.T) {
	_, err := discoverTextFiles([]string{"/nonexistent/path"}, false, nil, nil)
	require.Error(t, err)
}

func TestShouldIncludeFile_NoPatterns(t *testing.T) {
	assert.True(t, shouldIncludeFile("anything.bin", nil, nil))
	assert.False(t, shouldIncludeFile("anything.bin", nil, []string{"*.bin"}))
}
