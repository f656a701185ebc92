package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/upgrade-ai/studyplan/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "studyplan",
	Short: "Risk-aware study scheduler",
	Long: `Studyplan scores tasks for deadline risk and packs them into a
capacity-aware daily schedule. Plans are deterministic: the same tasks and
constraints always produce the same schedule. An optional LLM strategy can
propose schedules, which are validated and silently replaced by the built-in
allocator when they are late or malformed.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/studyplan/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/studyplan")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("STUDYPLAN")
	// Replace dots with underscores for nested keys in env vars
	// e.g., STUDYPLAN_LLM_API_KEY for llm.api_key
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
