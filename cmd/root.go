/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/QuestWing/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// jsonOutput switches command output to JSON.
	jsonOutput bool
	// vaultRoot overrides vault.root from the config file.
	vaultRoot string
	// version is the application version.
	version = "0.3.0"
)

// errActionFailed marks a command whose outcome was already printed. Execute
// exits non-zero without printing it again.
var errActionFailed = errors.New("action failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "questwing",
	Short: "QuestWing - quest board and character progression for your notes vault",
	Long: `QuestWing turns markdown and JSON quest files in a notes vault into a
quest board with a levelling character.

Moving a quest to completed awards XP, advances your daily streak and may
unlock power-ups and achievements. The watch command keeps the board in sync
while you edit files in your editor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errActionFailed) {
			PrintError("Error: "+err.Error(), err)
		}
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is <vault>/.questwing/config.yaml or $HOME/.questwing/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVar(&vaultRoot, "vault", "", "vault root directory (overrides vault.root)")
	bindFlags()

	rootCmd.AddCommand(versionCmd)
}

// bindFlags binds persistent flags to Viper.
func bindFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("vault.root", rootCmd.PersistentFlags().Lookup("vault"))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the QuestWing version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "questwing %s\n", version)
	},
}
