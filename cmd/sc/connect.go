package main

import (
	"errors"
	"io/fs"

	"github.com/zulandar/stagecraft/internal/config"
	"github.com/zulandar/stagecraft/internal/db"
	"gorm.io/gorm"
)

// loadConfig reads the config file, falling back to defaults when the file
// does not exist and the path is the stock one.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

const defaultConfigPath = "stagecraft.yaml"

// connectFromConfig loads the config and opens the database.
func connectFromConfig(path string) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}
