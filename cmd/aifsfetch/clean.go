package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aifsfetch/internal/cleanup"
)

func newCleanCmd(a *app) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the files directly under the destination directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				dest = a.cfg.Fetch.Destination
			}

			res := cleanup.ClearDirectory(a.logger, dest, displayPath(dest))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d files from %s\n", len(res.Deleted), displayPath(dest))

			if len(res.Errors) > 0 {
				return fmt.Errorf("%d files could not be deleted: %w", len(res.Errors), res.Errors[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "directory to clear (default from config)")
	return cmd
}
