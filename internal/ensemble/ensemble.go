// Package ensemble runs the extraction engine over multiple text variants of
// the same screenshot (different preprocessing pipelines, different regions)
// and keeps the best-scoring result. Every engine call is independent, so the
// fan-out needs no locking beyond the result channel.
package ensemble

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// Variant is one (text, context) pair to extract from.
type Variant struct {
	Text    string           `json:"text"`
	Context *extract.Context `json:"context,omitempty"`
}

// Selection is the winning result plus which variant produced it.
type Selection struct {
	Result       *extract.Result `json:"result"`
	VariantIndex int             `json:"variant_index"`
	PipelineName string          `json:"pipeline_name,omitempty"`
}

// Config holds fan-out settings.
type Config struct {
	MaxWorkers int // 0 = runtime.NumCPU()
}

// DefaultConfig returns sensible fan-out defaults.
func DefaultConfig() Config {
	return Config{MaxWorkers: runtime.NumCPU()}
}

// Runner fans variants out over a bounded worker pool.
type Runner struct {
	engine *extract.Engine
	cfg    Config
}

// New creates a runner around an engine.
func New(engine *extract.Engine, cfg Config) *Runner {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	return &Runner{engine: engine, cfg: cfg}
}

// Best extracts every variant and returns the result with the highest total
// score. Ties keep the earlier variant, so the selection is deterministic
// regardless of scheduling.
func (r *Runner) Best(ctx context.Context, variants []Variant) (*Selection, error) {
	if len(variants) == 0 {
		return nil, errors.New("no variants provided")
	}
	if len(variants) == 1 || r.cfg.MaxWorkers == 1 {
		return r.bestSequential(ctx, variants)
	}

	type indexed struct {
		index  int
		result *extract.Result
	}
	jobs := make(chan int, len(variants))
	results := make(chan indexed, len(variants))

	workers := r.cfg.MaxWorkers
	if workers > len(variants) {
		workers = len(variants)
	}
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				v := variants[i]
				results <- indexed{index: i, result: r.engine.Parse(v.Text, v.Context)}
			}
		}()
	}
	for i := range variants {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := -1
	var bestResult *extract.Result
	for res := range results {
		if best < 0 ||
			res.result.TotalScore > bestResult.TotalScore ||
			(res.result.TotalScore == bestResult.TotalScore && res.index < best) {
			best = res.index
			bestResult = res.result
		}
	}
	slog.Debug("ensemble selection", "variants", len(variants), "winner", best, "score", bestResult.TotalScore)
	return &Selection{
		Result:       bestResult,
		VariantIndex: best,
		PipelineName: variants[best].Context.Name(),
	}, nil
}

func (r *Runner) bestSequential(ctx context.Context, variants []Variant) (*Selection, error) {
	best := -1
	var bestResult *extract.Result
	for i, v := range variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.engine.Parse(v.Text, v.Context)
		if best < 0 || res.TotalScore > bestResult.TotalScore {
			best = i
			bestResult = res
		}
	}
	return &Selection{
		Result:       bestResult,
		VariantIndex: best,
		PipelineName: variants[best].Context.Name(),
	}, nil
}
