// Package batch parses directories of OCR text dumps in parallel.
package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// ProcessBatch parses a batch of OCR text dumps with the given configuration.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	files, err := discoverTextFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover text files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no text files found")
	}

	engine := extract.New(config.Extractor)

	startTime := time.Now()
	results := processFilesParallel(engine, files, config)
	duration := time.Since(startTime)

	return &Result{
		Results:     results,
		Duration:    duration,
		WorkerCount: config.workerCount(),
	}, nil
}
