package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/runlens/internal/extract"
	"github.com/MeKo-Tech/runlens/internal/history"
)

// entriesCmd groups the workout history subcommands.
var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage the confirmed workout history",
	Long: `Manage workout entries confirmed from extraction results.

Entries live in a local sqlite database (history.path in the config).

Examples:
  runlens entries save dump.txt --date 2026-08-30
  runlens entries list --sort pace
  runlens entries export --format xlsx --output workouts.xlsx
  runlens entries delete 2f1c...`,
}

var entriesSaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Parse a dump and save the result as a workout entry",
	Long: `Parse one OCR dump and persist the extracted fields as a confirmed
workout entry. Distance and duration must both be recovered; pace falls
back to the derived value when none was read from the screenshot.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		date, _ := cmd.Flags().GetString("date")
		source, _ := cmd.Flags().GetString("source")
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
		}

		data, err := os.ReadFile(args[0]) //nolint:gosec // G304: path comes from CLI arguments
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		engine := extract.New(cfg.Extractor)
		res := engine.Parse(string(data), nil)

		entry, err := history.FromResult(date, res, source)
		if err != nil {
			return fmt.Errorf("cannot save entry: %w", err)
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.Insert(cmd.Context(), entry); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved entry %s (%s, %.2f km, %s)\n",
			entry.ID, entry.Date, entry.DistanceKM, entry.Pace)
		return nil
	},
}

var entriesListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List workout entries",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		sortOrder, _ := cmd.Flags().GetString("sort")
		format, _ := cmd.Flags().GetString("format")

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		entries, err := store.List(cmd.Context(), history.Order(sortOrder))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			bts, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, string(bts))
			return nil
		}

		if len(entries) == 0 {
			_, _ = fmt.Fprintln(out, "No entries.")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %s  %.2f km  %s  %s/km", e.ID, e.Date, e.DistanceKM,
				extract.ClockFromSeconds(e.DurationSec).Display, e.Pace)
			if e.AvgHR != nil {
				line += fmt.Sprintf("  %d bpm", *e.AvgHR)
			}
			if e.Calories != nil {
				line += fmt.Sprintf("  %d kcal", *e.Calories)
			}
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	},
}

var entriesExportCmd = &cobra.Command{
	Use:          "export",
	Short:        "Export workout entries as CSV or XLSX",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")
		sortOrder, _ := cmd.Flags().GetString("sort")

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		entries, err := store.List(cmd.Context(), history.Order(sortOrder))
		if err != nil {
			return err
		}

		var w = cmd.OutOrStdout()
		if outputFile != "" {
			f, err := os.Create(outputFile) //nolint:gosec // G304: path comes from CLI arguments
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		switch strings.ToLower(format) {
		case "xlsx":
			if outputFile == "" {
				return fmt.Errorf("xlsx export requires --output")
			}
			return history.WriteXLSX(w, entries)
		case "csv":
			return history.WriteCSV(w, entries)
		default:
			return fmt.Errorf("unsupported export format: %s", format)
		}
	},
}

var entriesDeleteCmd = &cobra.Command{
	Use:          "delete [id]",
	Short:        "Delete a workout entry by ID",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesSaveCmd)
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesExportCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)

	entriesSaveCmd.Flags().String("date", "", "workout date (YYYY-MM-DD, default: today)")
	entriesSaveCmd.Flags().String("source", "", "pipeline name or other provenance")

	entriesListCmd.Flags().String("sort", "recent", "sort order: recent, date, distance, pace")
	entriesListCmd.Flags().StringP("format", "f", "text", "output format: text, json")

	entriesExportCmd.Flags().StringP("format", "f", "csv", "export format: csv, xlsx")
	entriesExportCmd.Flags().StringP("output", "o", "", "output file (default: stdout, required for xlsx)")
	entriesExportCmd.Flags().String("sort", "date", "sort order: recent, date, distance, pace")
}
