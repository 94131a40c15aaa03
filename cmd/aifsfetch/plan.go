package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"aifsfetch/internal/models"
)

// planOutput is what `plan --json` prints
type planOutput struct {
	Run       string                `json:"run"`
	InitTime  time.Time             `json:"init_time"`
	Directory string                `json:"directory"`
	Files     []models.ForecastFile `json:"files"`
}

func newPlanCmd(a *app) *cobra.Command {
	var opts batchOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the files a fetch would download, without downloading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := a.resolveRun(opts.runKey)
			if err != nil {
				return err
			}

			opts.horizonSet = cmd.Flags().Changed("horizon")
			dest := a.destination(opts)
			files, err := a.newFetcher(dest).Plan(run, a.horizon(opts))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(planOutput{
					Run:       run.Key(),
					InitTime:  run.InitTime(),
					Directory: dest,
					Files:     files,
				})
			}

			fmt.Fprintf(out, "run %s (init %s), %d files into %s\n",
				run, run.InitTime().Format(time.RFC3339), len(files), dest)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, f := range files {
				fmt.Fprintf(tw, "%dh\t%s\n", f.ForecastHour, f.URL)
			}
			return tw.Flush()
		},
	}

	addBatchFlags(cmd, &opts)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}
