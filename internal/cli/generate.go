package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/evalhub/internal/adapters/scanner"
	"github.com/okian/evalhub/internal/adapters/snapshot"
	"github.com/okian/evalhub/pkg/logger"
	"github.com/okian/evalhub/pkg/metrics"
)

// DefaultSnapshotOut is where generate writes unless --out is given.
const DefaultSnapshotOut = "public/evals.json"

var flagGenerateOut string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scan the benchmark root once and write a static snapshot",
	Long: `generate reads every benchmark directory under the root and writes
{evals, total} to the output file. Serve the file at /evals.json (or load it
with --mode snapshot) to browse without rescanning.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagGenerateOut, "out", "o", DefaultSnapshotOut, "Snapshot output file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	opts := append(scannerOptions(cfg), scanner.WithLogger(logger.Named("scanner")))
	ds, report, err := scanner.NewExtractor(opts...).Extract(ctx, cfg.EvalsRoot)
	if err != nil {
		metrics.RecordScan(metrics.ResultError, report.Duration)
		return fmt.Errorf("scan %s: %w", cfg.EvalsRoot, err)
	}
	metrics.RecordScan(metrics.ResultOK, report.Duration)
	metrics.RecordSkipped(report.Skipped)
	metrics.RecordParseFailures(len(report.Failures))
	metrics.UpdateRecordsTotal(ds.Total())

	if err := snapshot.Write(ctx, flagGenerateOut, ds); err != nil {
		metrics.RecordSnapshotWrite(metrics.ResultError)
		return err
	}
	metrics.RecordSnapshotWrite(metrics.ResultOK)

	fmt.Fprintf(out, "Wrote %s to %s\n", plural(ds.Total(), "benchmark"), flagGenerateOut)
	fmt.Fprintf(out, "  scanned %d, skipped %d, failed %d in %s\n",
		report.Scanned, report.Skipped, len(report.Failures), report.Duration.Round(time.Microsecond))
	for _, f := range report.Failures {
		fmt.Fprintf(out, "  ✗  %s\n", f.Error())
	}
	return nil
}
