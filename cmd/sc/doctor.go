package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zulandar/stagecraft/internal/config"
	"github.com/zulandar/stagecraft/internal/db"
	"github.com/zulandar/stagecraft/internal/store"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, schema, and counter consistency",
		Long:  "Runs diagnostic checks: config parses, database reachable, schema migrated, and every work item's denormalized counters match its transition log.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	return cmd
}

type checkResult struct {
	name   string
	status string // "PASS", "FAIL", "WARN"
	detail string
}

func runDoctor(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Stagecraft Doctor")
	fmt.Fprintln(out, "=================")

	var results []checkResult

	cfg, cfgResult := checkConfig(configPath)
	results = append(results, cfgResult)

	if cfg != nil {
		results = append(results, checkDatabase(cfg)...)
	} else {
		results = append(results, checkResult{"Database", "FAIL", "skipped (no config)"})
	}

	passed, failed := 0, 0
	for _, r := range results {
		printCheckResult(out, r)
		if r.status == "FAIL" {
			failed++
		} else {
			passed++
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("doctor: %d check(s) failed", failed)
	}
	return nil
}

func checkConfig(path string) (*config.Config, checkResult) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, checkResult{"Config", "FAIL", err.Error()}
	}
	return cfg, checkResult{"Config", "PASS", fmt.Sprintf("driver=%s", cfg.Database.Driver)}
}

func checkDatabase(cfg *config.Config) []checkResult {
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return []checkResult{{"Database", "FAIL", err.Error()}}
	}
	results := []checkResult{{"Database", "PASS", "connected"}}

	if err := db.AutoMigrate(gormDB); err != nil {
		results = append(results, checkResult{"Schema", "FAIL", err.Error()})
		return results
	}
	results = append(results, checkResult{"Schema", "PASS", fmt.Sprintf("%d tables", len(db.AllModels()))})

	drifted, err := store.CheckCounters(gormDB, cfg.Policy())
	switch {
	case err != nil:
		results = append(results, checkResult{"Counters", "FAIL", err.Error()})
	case len(drifted) > 0:
		detail := fmt.Sprintf("%d item(s) drifted, first: %s stored=%d/%d actual=%d/%d",
			len(drifted), drifted[0].PublicID,
			drifted[0].StoredRegressions, drifted[0].StoredTransitions,
			drifted[0].ActualRegressions, drifted[0].ActualTransitions)
		results = append(results, checkResult{"Counters", "FAIL", detail})
	default:
		results = append(results, checkResult{"Counters", "PASS", "log and counters agree"})
	}
	return results
}

func printCheckResult(out io.Writer, r checkResult) {
	fmt.Fprintf(out, "[%s] %-10s %s\n", r.status, r.name, r.detail)
}
