package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aidocs/harvester/internal/crawler"
	"github.com/aidocs/harvester/internal/logging"
	"github.com/aidocs/harvester/pkg/document"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a site and write the document collection",
		Long: `Crawls breadth-first from --start-url within the seed's domain, subject to
the page and depth budgets, and writes the enriched documents to --output.
An interrupt (SIGINT/SIGTERM) stops the crawl cleanly and still writes the
documents collected so far.`,
		RunE: runCrawlCommand,
	}

	cmd.Flags().String("start-url", "", "seed URL for the crawl (http/https)")
	cmd.Flags().String("output", "", "output file path")
	cmd.Flags().Int("max-pages", 100, "maximum number of documents to collect")
	cmd.Flags().Int("max-depth", 3, "maximum link-hop distance from the seed")
	cmd.Flags().Float64("delay", 1.0, "politeness delay between fetches in seconds")
	cmd.Flags().Int("timeout", 10, "per-request timeout in seconds")
	cmd.Flags().String("format", "jsonl", "output format: jsonl or json")
	cmd.Flags().String("user-agent", "harvester/1.0", "User-Agent header for requests")

	cobra.CheckErr(cmd.MarkFlagRequired("start-url"))
	cobra.CheckErr(cmd.MarkFlagRequired("output"))

	v := viper.GetViper()
	cobra.CheckErr(v.BindPFlag("crawler.start_url", cmd.Flags().Lookup("start-url")))
	cobra.CheckErr(v.BindPFlag("output.path", cmd.Flags().Lookup("output")))
	cobra.CheckErr(v.BindPFlag("crawler.max_pages", cmd.Flags().Lookup("max-pages")))
	cobra.CheckErr(v.BindPFlag("crawler.max_depth", cmd.Flags().Lookup("max-depth")))
	cobra.CheckErr(v.BindPFlag("crawler.delay_seconds", cmd.Flags().Lookup("delay")))
	cobra.CheckErr(v.BindPFlag("crawler.timeout_seconds", cmd.Flags().Lookup("timeout")))
	cobra.CheckErr(v.BindPFlag("output.format", cmd.Flags().Lookup("format")))
	cobra.CheckErr(v.BindPFlag("crawler.user_agent", cmd.Flags().Lookup("user-agent")))

	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	v, err := initViper()
	if err != nil {
		return err
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	cfg, err := crawler.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}
	format, err := document.ParseFormat(v.GetString("output.format"))
	if err != nil {
		return err
	}
	outputPath := v.GetString("output.path")
	if outputPath == "" {
		return errors.New("output.path must be set")
	}

	fetcher := crawler.NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, logger)
	engine, err := crawler.NewEngine(cfg, fetcher, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, runErr := engine.Run(ctx)

	// On interrupt the documents collected so far are still written.
	if err := document.WriteCollection(docs, outputPath, format); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	logger.Info("collection saved",
		zap.String("path", outputPath),
		zap.String("format", string(format)),
		zap.Int("documents", len(docs)),
	)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("run crawl: %w", runErr)
	}
	return nil
}
