/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/QuestWing/internal/config"
	"github.com/josephgoksu/QuestWing/internal/logger"
	"github.com/josephgoksu/QuestWing/types"
)

var (
	// GlobalAppConfig holds the global application configuration instance.
	GlobalAppConfig *types.AppConfig
	// configFileUsed is the file the configuration was read from, if any.
	configFileUsed string
	// configErr is kept so commands that need the config can report it.
	configErr error
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	res, err := config.Load(viper.GetViper(), viper.GetString("config"))
	if err != nil {
		configErr = err
		GlobalAppConfig = nil
		return
	}
	GlobalAppConfig = res.Config
	configFileUsed = res.FileUsed
	configErr = nil

	level, err := logger.ParseLevel(res.Config.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger.Setup(level, os.Stderr)
	logger.SetBasePath(config.CrashLogBase(res.Config))

	if res.FileUsed != "" {
		slog.Debug("using config file", "path", res.FileUsed)
	} else {
		slog.Debug("no config file found, using defaults and environment")
	}
}

// GetConfig returns the loaded configuration, or the error that prevented
// loading it.
func GetConfig() (*types.AppConfig, error) {
	if configErr != nil {
		return nil, configErr
	}
	if GlobalAppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return GlobalAppConfig, nil
}
