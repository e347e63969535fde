package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gerritkit/internal/config"
	"gerritkit/internal/ui"
)

var (
	flagProject string
	flagServer  string

	rootCmd = &cobra.Command{
		Use:   "gerritkit",
		Short: "Work with branches and commits on a Gerrit server",
		Long: "gerritkit - a typed client for the Gerrit code review REST API,\n" +
			"exposing project branches and commits from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags are matched case-insensitively
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})

	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Gerrit server URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "",
		"Gerrit project (defaults to the remote of the current checkout)")
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(config.GetConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("GERRITKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay; setup creates one
	}
}
