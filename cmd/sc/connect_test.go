package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_MissingStockPathFallsBack(t *testing.T) {
	// The stock path does not exist in the test working directory; loadConfig
	// should return defaults rather than an error.
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skipf("%s exists in test working directory", defaultConfigPath)
	}

	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig() = %v, want defaults", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite default", cfg.Database.Driver)
	}
}

func TestLoadConfig_MissingExplicitPathErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestConnectFromConfig(t *testing.T) {
	cfg, gormDB, err := connectFromConfig(writeTestConfig(t))
	if err != nil {
		t.Fatalf("connectFromConfig() = %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if gormDB == nil {
		t.Fatal("expected a database handle")
	}
}

func TestDBInitCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"db", "init", "--config", writeTestConfig(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("db init failed: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Schema up to date") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSweepCmd_NoOverdueItems(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	configPath := writeTestConfig(t)

	// Migrate first so the scan has tables to read.
	cmd.SetArgs([]string{"db", "init", "--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("db init failed: %v", err)
	}

	cmd = newRootCmd()
	buf.Reset()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"sweep", "--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("sweep failed: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "No overdue work items") {
		t.Errorf("output = %q", buf.String())
	}
}
