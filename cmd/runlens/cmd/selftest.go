package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// selftestCmd represents the selftest command.
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Verify extraction against the embedded sample corpus",
	Long: `Run the extraction engine over the embedded corpus of known screenshot
texts and verify that distance and duration are recovered correctly for
every sample.

Use this after changing scoring weights in the configuration: the corpus
acts as a regression net for the tuning.

Examples:
  runlens selftest
  runlens selftest --config custom.yaml`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		samples, err := extract.SelfTestCorpus()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Running self-test over %d samples...\n", len(samples))

		engine := extract.New(cfg.Extractor)
		if err := extract.SelfTest(engine); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(out, "All samples recovered correctly.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}
