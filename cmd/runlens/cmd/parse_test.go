package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

func writeTestDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCommand(t *testing.T) {
	assert.NotNil(t, parseCmd)
	assert.NotEmpty(t, parseCmd.Short)
	assert.NotNil(t, parseCmd.Flags().Lookup("format"))
	assert.NotNil(t, parseCmd.Flags().Lookup("roi-source"))
}

func TestParseCommand_TextOutput(t *testing.T) {
	path := writeTestDump(t, "run.txt", "거리 8.29 km\n총 시간 55:18\n평균 심박수 153 bpm")

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", path, "--format", "text", "--output", ""})
	require.NoError(t, err)

	assert.Contains(t, output, "distance: 8.29 km")
	assert.Contains(t, output, "duration: 55:18")
	assert.Contains(t, output, "avg_hr: 153 bpm")
	assert.Contains(t, output, "warning: 칼로리 추출 실패")
}

func TestParseCommand_JSONOutput(t *testing.T) {
	path := writeTestDump(t, "run.txt", "Distance 12.48 km\nTime 1:10:22")
	outFile := filepath.Join(t.TempDir(), "out.json")

	_, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", path, "--format", "json", "--output", outFile})
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var parsed struct {
		Result *extract.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.NotNil(t, parsed.Result)
	require.NotNil(t, parsed.Result.Values.Distance)
	assert.InDelta(t, 12.48, *parsed.Result.Values.Distance, 1e-9)
	require.NotNil(t, parsed.Result.Values.Duration)
	assert.Equal(t, 4222, parsed.Result.Values.Duration.Seconds)
}

func TestParseCommand_VariantSelection(t *testing.T) {
	// The garbled variant drops the decimal point; the clean one must win.
	garbled := writeTestDump(t, "garbled.txt", "something 1002\n시간 31:05")
	clean := writeTestDump(t, "clean.txt", "거리 10.02 km\n시간 31:05")

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", garbled, clean, "--format", "text", "--output", ""})
	require.NoError(t, err)

	assert.Contains(t, output, "distance: 10.02 km")
	assert.Contains(t, output, "variant: "+clean)
}

func TestParseCommand_Candidates(t *testing.T) {
	path := writeTestDump(t, "run.txt", "거리 8.29 km\n총 시간 55:18")

	output, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", path, "--candidates", "--format", "text", "--output", ""})
	require.NoError(t, err)

	assert.Contains(t, output, "distance candidates:")
	assert.Contains(t, output, "km pattern")
}

func TestParseCommand_MissingFile(t *testing.T) {
	_, err := executeCommandAndCaptureOutput(t, rootCmd,
		[]string{"parse", "/nonexistent/run.txt"})
	require.Error(t, err)
}
