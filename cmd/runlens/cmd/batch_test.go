package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommand(t *testing.T) {
	assert.NotNil(t, batchCmd)
	assert.NotEmpty(t, batchCmd.Short)
	assert.NotNil(t, batchCmd.Flags().Lookup("workers"))
	assert.NotNil(t, batchCmd.Flags().Lookup("watch"))
}

func TestBatchCommand_Directory(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"),
		[]byte("거리 8.29 km\n총 시간 55:18"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "b.txt"),
		[]byte("Distance 12.48 km\nTime 1:10:22"), 0o600))

	outFile := filepath.Join(t.TempDir(), "results.txt")
	_, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"batch", tempDir, "--format", "text", "--output", outFile, "--quiet"})
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	output := string(data)
	assert.Contains(t, output, "# "+filepath.Join(tempDir, "a.txt"))
	assert.Contains(t, output, "distance: 8.29 km")
	assert.Contains(t, output, "distance: 12.48 km")
	assert.Contains(t, output, "duration: 1:10:22")
}

func TestBatchCommand_OutputFile(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"),
		[]byte("거리 5.00 km\n시간 25:00"), 0o600))

	outFile := filepath.Join(t.TempDir(), "results.csv")
	_, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"batch", tempDir, "--format", "csv", "--output", outFile, "--quiet"})
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file,distance_km,duration")
	assert.Contains(t, string(data), "5.00,25:00,1500")
}

func TestBatchCommand_EmptyDirectory(t *testing.T) {
	_, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"batch", t.TempDir(), "--format", "text", "--output", "", "--quiet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text files found")
}
