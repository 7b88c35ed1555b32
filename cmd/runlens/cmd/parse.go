package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/runlens/internal/ensemble"
	"github.com/MeKo-Tech/runlens/internal/extract"
)

// parseCmd represents the parse command.
var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Extract workout fields from OCR text",
	Long: `Extract distance, duration, pace, average heart rate and calories from an
OCR text dump of a workout screenshot.

With no arguments the text is read from stdin. With one file that file is
parsed. With multiple files each file is treated as an OCR variant of the
same screenshot (for example different preprocessing pipelines) and the
variant whose extraction scores best is selected.

Examples:
  runlens parse dump.txt
  cat dump.txt | runlens parse
  runlens parse binarized.txt grayscale.txt --format json
  runlens parse dump.txt --roi-source detected_roi`,
	SilenceUsage: true,
	RunE:         runParseCommand,
}

func runParseCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format, _ := cmd.Flags().GetString("format")
	outputFile, _ := cmd.Flags().GetString("output")
	pipelineName, _ := cmd.Flags().GetString("pipeline")
	roiSource, _ := cmd.Flags().GetString("roi-source")
	showCandidates, _ := cmd.Flags().GetBool("candidates")

	variants, err := readVariants(args, pipelineName, roiSource)
	if err != nil {
		return err
	}

	engine := extract.New(cfg.Extractor)
	runner := ensemble.New(engine, ensemble.Config{MaxWorkers: cfg.Ensemble.MaxWorkers})
	selection, err := runner.Best(cmd.Context(), variants)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	output, err := formatSelection(selection, format, showCandidates)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// readVariants builds one ensemble variant per input file, or a single stdin
// variant when no files are given.
func readVariants(args []string, pipelineName, roiSource string) ([]ensemble.Variant, error) {
	var pctx *extract.Context
	if pipelineName != "" || roiSource != "" {
		pctx = &extract.Context{PipelineName: pipelineName, ROISource: roiSource}
	}

	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []ensemble.Variant{{Text: string(data), Context: pctx}}, nil
	}

	variants := make([]ensemble.Variant, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from CLI arguments
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		ctx := pctx
		if ctx == nil || ctx.PipelineName == "" {
			// Use the filename as the variant's pipeline name so the
			// selection reports which dump won.
			named := extract.Context{ROISource: roiSource, PipelineName: path}
			if pctx != nil {
				named.ROI = pctx.ROI
			}
			ctx = &named
		}
		variants = append(variants, ensemble.Variant{Text: string(data), Context: ctx})
	}
	return variants, nil
}

func formatSelection(sel *ensemble.Selection, format string, showCandidates bool) (string, error) {
	if format == "json" {
		obj := struct {
			Result   *extract.Result `json:"result"`
			Missing  []string        `json:"missing,omitempty"`
			Variant  int             `json:"variant"`
			Pipeline string          `json:"pipeline,omitempty"`
		}{
			Result:   sel.Result,
			Missing:  sel.Result.MissingFields(),
			Variant:  sel.VariantIndex,
			Pipeline: sel.PipelineName,
		}
		bts, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return "", err
		}
		return string(bts) + "\n", nil
	}

	var out strings.Builder
	v := sel.Result.Values
	if v.Distance != nil {
		out.WriteString(fmt.Sprintf("distance: %.2f km\n", *v.Distance))
	}
	if v.Duration != nil {
		out.WriteString(fmt.Sprintf("duration: %s\n", v.Duration.Display))
	}
	if v.Pace != nil {
		out.WriteString(fmt.Sprintf("pace: %s/km\n", v.Pace.Display))
	}
	if v.AvgHR != nil {
		out.WriteString(fmt.Sprintf("avg_hr: %d bpm\n", *v.AvgHR))
	}
	if v.Calories != nil {
		out.WriteString(fmt.Sprintf("calories: %d kcal\n", *v.Calories))
	}
	for _, warn := range sel.Result.MissingFields() {
		out.WriteString(fmt.Sprintf("warning: %s\n", warn))
	}
	out.WriteString(fmt.Sprintf("score: %.1f\n", sel.Result.TotalScore))
	if sel.PipelineName != "" {
		out.WriteString(fmt.Sprintf("variant: %s\n", sel.PipelineName))
	}

	if showCandidates {
		for _, f := range extract.Fields() {
			cands := sel.Result.TopCandidates(f, 6)
			if len(cands) == 0 {
				continue
			}
			out.WriteString(fmt.Sprintf("\n%s candidates:\n", f))
			for _, c := range cands {
				out.WriteString(fmt.Sprintf("  %s  score=%.1f  (%s)\n",
					c.Value(), c.Score, c.Reason))
			}
		}
	}
	return out.String(), nil
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("format", "f", "text", "output format: text, json")
	parseCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	parseCmd.Flags().String("pipeline", "", "name of the OCR pipeline that produced the text")
	parseCmd.Flags().String("roi-source", "", "ROI provenance: detected_roi, full_fallback, manual")
	parseCmd.Flags().Bool("candidates", false, "list ranked candidates per field")
}
