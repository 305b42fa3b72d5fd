/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v3"

	"github.com/josephgoksu/QuestWing/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd, cfg)
		}
		settings := viper.AllSettings()
		delete(settings, "config")
		delete(settings, "json")
		out, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		src := configFileUsed
		if src == "" {
			src = "(defaults and environment)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", src, out)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key in the config file",
	Long: `Set a dotted key such as streak.mode or watch.debounce in the config file
that was loaded, or in <vault>/.questwing/config.yaml when none was found.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		key := args[0]
		if !knownKey(key) {
			return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(knownKeys(), ", "))
		}
		path := configFileUsed
		if path == "" {
			path = config.ProjectConfigFile(cfg.Vault.Root)
		}
		if err := config.SetValue(path, key, parseValue(args[1])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, args[1], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func knownKeys() []string {
	keys := make([]string, 0, len(config.Defaults))
	for _, d := range config.Defaults {
		keys = append(keys, d.Key)
	}
	sort.Strings(keys)
	return keys
}

func knownKey(key string) bool {
	for _, d := range config.Defaults {
		if strings.EqualFold(d.Key, key) {
			return true
		}
	}
	return false
}

// parseValue keeps booleans and integers typed in the YAML file; everything
// else, durations included, is written as a string.
func parseValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
