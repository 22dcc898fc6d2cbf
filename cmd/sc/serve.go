package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/stagecraft/internal/db"
	"github.com/zulandar/stagecraft/internal/server"
	"github.com/zulandar/stagecraft/internal/sweep"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		withSweep  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Stagecraft API server",
		Long:  "Starts the HTTP API, optionally with the overdue-stage sweep daemon alongside it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gormDB); err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			policy := cfg.Policy()
			if withSweep {
				go sweep.Run(ctx, gormDB, policy, cfg.Sweep.Schedule)
			}

			return server.Start(ctx, server.StartOpts{
				DB:     gormDB,
				Policy: policy,
				Port:   port,
				Out:    cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides config)")
	cmd.Flags().BoolVar(&withSweep, "sweep", false, "also run the overdue-stage sweep daemon")
	return cmd
}
