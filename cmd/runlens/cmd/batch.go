package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/runlens/internal/batch"
	"github.com/MeKo-Tech/runlens/internal/config"
)

// batchCmd represents the batch command for parallel dump processing.
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Extract workout fields from multiple OCR dumps in parallel",
	Long: `Process multiple OCR text dumps in parallel and extract workout fields
from each. Arguments can be files or directories.

With --watch the command keeps running after the initial pass and parses
new dumps as they are written into the watched directory.

Examples:
  runlens batch dumps/*.txt
  runlens batch dumps/ --recursive --workers 8
  runlens batch dumps/ --format json --output results.json
  runlens batch dumps/ --watch`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags will override config file values through Viper's precedence system.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := &batch.Config{Extractor: cfg.Extractor}

	batchConfig.Workers = cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	}

	batchConfig.Format = cfg.Output.Format
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}

	batchConfig.OutputFile = cfg.Output.File
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}

	batchConfig.IncludePatterns = []string{cfg.Batch.Pattern}
	if cmd.Flags().Changed("include") {
		batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}

	// CLI-only settings
	batchConfig.Pipeline, _ = cmd.Flags().GetString("pipeline")
	batchConfig.ROISource, _ = cmd.Flags().GetString("roi-source")
	batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")

	return batchConfig
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	batchConfig := configToBatchConfig(cfg, cmd)

	watch := cfg.Batch.Watch
	if cmd.Flags().Changed("watch") {
		watch, _ = cmd.Flags().GetBool("watch")
	}

	if !batchConfig.Quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Processing %d paths...\n", len(args))
	}

	result, err := batch.ProcessBatch(args, batchConfig)
	if err != nil {
		if !watch {
			return fmt.Errorf("batch processing failed: %w", err)
		}
		// An empty directory is fine in watch mode.
		result = &batch.Result{}
	}

	if len(result.Results) > 0 {
		if err := result.SaveResults(batchConfig.Format, batchConfig.OutputFile, batchConfig.Quiet); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		if batchConfig.ShowStats {
			result.PrintStats(batchConfig.Quiet)
		}
	}

	if !watch {
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	err = batch.Watch(ctx, args[0], batchConfig, func(fr batch.FileResult) {
		out, ferr := (&batch.Result{Results: []batch.FileResult{fr}}).FormatResults(batchConfig.Format)
		if ferr != nil {
			fmt.Fprintf(os.Stderr, "Error formatting result for %s: %v\n", fr.Path, ferr)
			return
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))
	batchCmd.Flags().StringP("format", "f", "text", "output format: text, json, csv")
	batchCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	batchCmd.Flags().String("pipeline", "", "pipeline name recorded for every dump")
	batchCmd.Flags().String("roi-source", "", "ROI provenance recorded for every dump")
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", []string{"*.txt"}, "file patterns to include")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")
	batchCmd.Flags().Bool("quiet", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "show processing statistics")
	batchCmd.Flags().Bool("watch", false, "keep watching the first path for new dumps")
}
