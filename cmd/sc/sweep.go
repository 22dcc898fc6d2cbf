package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/stagecraft/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	var (
		configPath string
		daemon     bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Report work items overdue in their current stage",
		Long:  "Scans once and prints a report, or with --daemon keeps scanning on the configured cron schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			policy := cfg.Policy()

			if daemon {
				ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return sweep.Run(ctx, gormDB, policy, cfg.Sweep.Schedule)
			}

			overdue, err := sweep.Scan(gormDB, policy, time.Now().UTC())
			if err != nil {
				return err
			}
			sweep.Report(cmd.OutOrStdout(), overdue)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().BoolVar(&daemon, "daemon", false, "keep scanning on the configured schedule")
	return cmd
}
