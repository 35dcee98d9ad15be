// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the feedbook CLI, which turns a
// read-later feed into a single portable e-book.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/feedbook/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the feedbook CLI.
var rootCmd = &cobra.Command{
	Use:   "feedbook",
	Short: "Convert a read-later feed into an EPUB book",
	Long: `feedbook reads a list of saved article links from an RSS or Atom feed,
fetches and cleans each article's readable content, localizes its images,
and packages everything into one EPUB with a cover, table of contents, and
chapters in original feed order.

The feed URL can come from the --url flag, the FEEDBOOK_FEED_URL
environment variable, a feedbook.yaml config file, or .secrets/feed-url.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./feedbook.yaml or ~/.config/feedbook/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("feedbook")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "feedbook"))
		}
	}

	viper.SetEnvPrefix("FEEDBOOK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
