// Package cmd implements the textdb command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	textdb "github.com/mwantia/textdb"
	"github.com/mwantia/textdb/log"
)

var rootCmd = &cobra.Command{
	Use:   "textdb",
	Short: "Query versioned text-file metadata repositories",
	Long: "textdb projects a directory tree of JSON/YAML files into a hierarchical " +
		"database and resolves time-indexed queries through per-directory validity files.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("repo", "r", ".", "path to the metadata repository")
	rootCmd.PersistentFlags().String("config", "", "config file (default .textdb.yaml)")
	rootCmd.PersistentFlags().Bool("lazy", false, "load files on first access instead of scanning eagerly")
	rootCmd.PersistentFlags().Bool("hidden", false, "include dot-prefixed files and directories")
	rootCmd.PersistentFlags().Bool("strict", false, "fail on unresolved placeholders")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))
	_ = viper.BindPFlag("lazy", rootCmd.PersistentFlags().Lookup("lazy"))
	_ = viper.BindPFlag("hidden", rootCmd.PersistentFlags().Lookup("hidden"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".textdb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("TEXTDB")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// openRepo opens the configured repository with the configured options.
func openRepo() (*textdb.DB, error) {
	opts := []textdb.Option{
		textdb.WithLogLevel(log.Parse(viper.GetString("log_level"))),
	}
	if viper.GetBool("lazy") {
		opts = append(opts, textdb.WithLazy())
	}
	if viper.GetBool("hidden") {
		opts = append(opts, textdb.WithHidden())
	}
	if viper.GetBool("strict") {
		opts = append(opts, textdb.WithStrictSubstitution())
	}

	return textdb.New(viper.GetString("repo"), opts...)
}
