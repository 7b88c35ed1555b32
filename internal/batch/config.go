package batch

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Extraction settings
	Extractor extract.Config
	Pipeline  string
	ROISource string

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings
	Format     string
	OutputFile string
	Quiet      bool
	ShowStats  bool
}

func (c *Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// context builds the extraction context shared by every file in the batch.
func (c *Config) context() *extract.Context {
	if c.Pipeline == "" && c.ROISource == "" {
		return nil
	}
	return &extract.Context{
		PipelineName: c.Pipeline,
		ROISource:    c.ROISource,
	}
}

// FileResult holds the extraction outcome for one text dump.
type FileResult struct {
	Path   string          `json:"file"`
	Result *extract.Result `json:"result,omitempty"`
	Err    error           `json:"-"`
}

// Result holds the result of batch processing.
type Result struct {
	Results     []FileResult
	Duration    time.Duration
	WorkerCount int
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Results, format)
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	processed, failed := 0, 0
	for _, fr := range r.Results {
		if fr.Err != nil {
			failed++
		} else {
			processed++
		}
	}
	avg := time.Duration(0)
	if len(r.Results) > 0 {
		avg = r.Duration / time.Duration(len(r.Results))
	}
	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total files: %d\n", len(r.Results))
	_, _ = fmt.Fprintf(os.Stdout, "  Processed: %d\n", processed)
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", failed)
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Avg per file: %v\n", avg.Round(time.Microsecond))
}
