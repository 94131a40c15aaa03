package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aifsfetch/internal/fetcher"
	"aifsfetch/internal/scheduler"
	"aifsfetch/internal/server"
)

func newScheduleCmd(a *app) *cobra.Command {
	var (
		spec   string
		listen string
		runNow bool
	)
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Fetch every new run on a cron schedule and serve status endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" {
				spec = a.cfg.Schedule.Cron
			}
			if listen == "" {
				listen = a.cfg.Schedule.Listen
			}
			opts.horizonSet = cmd.Flags().Changed("horizon")
			if _, err := fetcher.ForecastHours(a.horizon(opts)); err != nil {
				return err
			}

			var schedOpts []scheduler.Option
			if runNow {
				schedOpts = append(schedOpts, scheduler.WithRunOnStart())
			}
			sched, err := scheduler.New(spec, a.logger, schedOpts...)
			if err != nil {
				return err
			}

			state := &server.State{}
			state.SetNext(sched.Next(a.now()))

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.NewServer(state, a.logger).Start(ctx, listen)
			})
			g.Go(func() error {
				return sched.Run(ctx, func(jobCtx context.Context) error {
					state.Begin()
					report, err := a.runBatch(jobCtx, opts)
					state.Finish(report, err, sched.Next(a.now()))
					return err
				})
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "", "cron expression in UTC (default from config)")
	cmd.Flags().StringVar(&listen, "listen", "", "address for /health, /status and /metrics (default from config)")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "fetch once immediately on start")
	cmd.Flags().IntVar(&opts.horizon, "horizon", 0, "final forecast hour, a multiple of 6 (default from config)")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "destination directory (default from config)")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "delete files already in the destination before each fetch")
	return cmd
}
