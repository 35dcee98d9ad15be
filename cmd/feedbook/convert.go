package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/feedbook/internal/convert"
	"github.com/pdiddy/feedbook/internal/secrets"
	"github.com/pdiddy/feedbook/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxItems  = 20
	defaultWorkers   = 10
	defaultOutput    = "articles.epub"
	defaultUserAgent = "feedbook/0.1"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Fetch saved articles and write them as one EPUB",
	Long: `Convert fetches the read-later feed, extracts the readable content of
each saved article, downloads and localizes referenced images, and writes
a single EPUB with cover, table of contents, and chapters in original
feed order. Articles that cannot be fetched or extracted are skipped with
a recorded reason; the rest of the run continues.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("url", "", "read-later feed URL (or FEEDBOOK_FEED_URL, config, .secrets/feed-url)")
	convertCmd.Flags().Int("max-items", defaultMaxItems, "maximum number of feed items to convert")
	convertCmd.Flags().String("output", defaultOutput, "output EPUB file path")
	convertCmd.Flags().String("report", "", "optional YAML run-report path")
	convertCmd.Flags().Int("workers", defaultWorkers, "worker pool width for per-article processing")
	convertCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	convertCmd.Flags().Bool("debug", false, "sequential, deterministic execution for diagnosis")

	rootCmd.AddCommand(convertCmd)
}

// feedURL resolves the feed URL from flag, environment/config, then secrets.
func feedURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("url"); u != "" {
		return u
	}
	if u := viper.GetString("feed_url"); u != "" {
		return u
	}
	return loadedSecrets[secrets.FeedURLKey]
}

func runConvert(cmd *cobra.Command, args []string) error {
	url := feedURL(cmd)
	if url == "" {
		return fmt.Errorf("no feed URL: pass --url, set FEEDBOOK_FEED_URL, or create .secrets/feed-url")
	}

	maxItems, _ := cmd.Flags().GetInt("max-items")
	output, _ := cmd.Flags().GetString("output")
	report, _ := cmd.Flags().GetString("report")
	workers, _ := cmd.Flags().GetInt("workers")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	debug, _ := cmd.Flags().GetBool("debug")

	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}
	cfg := types.PipelineConfig{
		Feed:    types.FeedConfig{HTTPConfig: httpCfg, MaxItems: maxItems},
		Extract: types.ExtractConfig{HTTPConfig: httpCfg},
		Images:  types.ImageConfig{HTTPConfig: httpCfg},
		Convert: types.ConvertConfig{
			Workers:    workers,
			Sequential: debug,
			OutputPath: output,
			ReportPath: report,
		},
	}

	result, err := convert.Run(cmd.Context(), url, cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Successfully created EPUB file: %s\n", result.OutputPath)
	return nil
}
