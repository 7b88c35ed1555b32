package batch

import (
	"fmt"
	"os"
	"sync"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// processSingleFile reads one OCR dump and runs the extraction engine on it.
func processSingleFile(engine *extract.Engine, path string, pctx *extract.Context) FileResult {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from CLI arguments
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	return FileResult{Path: path, Result: engine.Parse(string(data), pctx)}
}

// processFilesParallel parses dumps with a bounded worker pool. Results keep
// input order.
func processFilesParallel(engine *extract.Engine, paths []string, config *Config) []FileResult {
	results := make([]FileResult, len(paths))
	pctx := config.context()

	workers := config.workerCount()
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processSingleFile(engine, paths[i], pctx)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
