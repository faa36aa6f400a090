package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/patentia/internal/pipeline"
)

var (
	outPath  string
	maxBytes int64
	noCache  bool
	summary  bool
	timeout  time.Duration
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse a single saved patent page",
	Long: `Parse reads one saved patent page and writes its structured data
as JSON. Use "-" to read the page from stdin. Gzip compressed pages
(.html.gz) are accepted.

Example:
  patentia parse US1234567A.html
  patentia parse US1234567A.html --out US1234567A.json --summary
  curl -s https://example.org/patent | patentia parse -`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&outPath, "out", "o", pipeline.StdoutTarget, `output JSON path ("-" for stdout)`)
	parseCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max input bytes to read (default from config)")
	parseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parse cache")
	parseCmd.Flags().BoolVar(&summary, "summary", false, "print a summary to stderr")
	parseCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "parse timeout")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-bytes") {
		cfg.Input.MaxBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if summary {
		cfg.Output.Summary = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	logger.Debug("parsing",
		"source", path,
		"cache", cfg.Cache.Enabled,
		"max_bytes", cfg.Input.MaxBytes,
	)

	p := pipeline.NewPipeline(cfg, logger)
	result, err := p.ParseFile(ctx, path)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if cfg.Output.Verbose {
		doc := result.Document
		claims, parts := doc.SectionCounts()
		fmt.Fprintf(os.Stderr, "✓ Parsed %d properties\n", len(doc.Patent))
		fmt.Fprintf(os.Stderr, "✓ Found %d claims and %d description parts\n", claims, parts)
		if len(doc.Warnings) > 0 {
			fmt.Fprintf(os.Stderr, "✗ %d warnings\n", len(doc.Warnings))
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderDocument(result.Document, outPath); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
