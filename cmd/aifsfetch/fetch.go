package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newFetchCmd(a *app) *cobra.Command {
	var opts batchOptions
	var strict bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download every file of the latest (or given) run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts.horizonSet = cmd.Flags().Changed("horizon")
			report, err := a.runBatch(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d files downloaded to %s\n",
				report.Run, report.Succeeded(), len(report.Results), report.Directory)

			if strict && !report.OK() {
				return fmt.Errorf("%d of %d files failed", report.Failed(), len(report.Results))
			}
			return nil
		},
	}

	addBatchFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "delete files already in the destination before downloading")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any file fails")
	return cmd
}

// addBatchFlags registers the run selection flags shared by fetch and plan
func addBatchFlags(cmd *cobra.Command, opts *batchOptions) {
	cmd.Flags().IntVar(&opts.horizon, "horizon", 0, "final forecast hour, a multiple of 6 (default from config)")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "destination directory (default from config)")
	cmd.Flags().StringVar(&opts.runKey, "run", "", "run to fetch as YYYYMMDDHH instead of the latest one")
}
