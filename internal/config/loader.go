package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/josephgoksu/QuestWing/types"
)

// validate caches struct info across loads.
var validate = validator.New()

// LoadResult reports which file, if any, the configuration came from.
type LoadResult struct {
	Config   *types.AppConfig
	FileUsed string
}

// Prepare sets up environment handling, defaults and the config search path
// on v. An explicit cfgFile replaces the search.
func Prepare(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	ApplyDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return nil
	}

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(v.GetString("vault.root"), StateDir))
	home, err := GetGlobalConfigDir()
	if err == nil {
		v.AddConfigPath(home)
	}
	return nil
}

// Load reads the configuration into an AppConfig and validates it. A missing
// config file is not an error unless cfgFile named it explicitly.
func Load(v *viper.Viper, cfgFile string) (*LoadResult, error) {
	if err := Prepare(v, cfgFile); err != nil {
		return nil, err
	}

	res := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case cfgFile != "":
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	} else {
		res.FileUsed = v.ConfigFileUsed()
	}

	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	res.Config = &cfg
	return res, nil
}

// Validate checks an AppConfig against its struct tags.
func Validate(cfg *types.AppConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", configKey(e.Namespace()), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// configKey turns "AppConfig.Watch.PendingRelease" into "watch.pendingRelease".
func configKey(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}
