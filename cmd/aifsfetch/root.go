package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "aifsfetch",
		Short:        "Download ECMWF AIFS open-data forecast runs",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(configPath)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newFetchCmd(a),
		newPlanCmd(a),
		newCleanCmd(a),
		newScheduleCmd(a),
	)
	return root
}
