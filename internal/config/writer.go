package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigExists is returned by WriteDefaultConfig when the file is present
// and force is false.
var ErrConfigExists = fmt.Errorf("config file already exists")

// WriteDefaultConfig writes every default key to path as YAML. Durations are
// written in their human form ("300ms").
func WriteDefaultConfig(path string, force bool) error {
	if path == "" {
		return fmt.Errorf("config path cannot be empty")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for _, d := range Defaults {
		if dur, ok := d.Value.(time.Duration); ok {
			v.Set(d.Key, dur.String())
			continue
		}
		v.Set(d.Key, d.Value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// SetValue updates a single key in the config file at path, creating the
// file when it does not exist.
func SetValue(path, key string, value any) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.Set(key, value)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return v.WriteConfigAs(path)
}
