package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ppiankov/patentia/internal/pipeline"
	"github.com/ppiankov/patentia/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	fileTimeout  time.Duration
	listFile     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <glob...|list-file>",
	Short: "Parse many saved patent pages in parallel",
	Long: `Batch parses many pages concurrently and writes one JSON file per
page into the output directory.

Inputs are file paths or glob patterns. With --list, the single argument
is a file holding one path per line (blank lines and # comments are
skipped, relative paths are resolved against the list file).

Example:
  patentia batch 'pages/*.html'
  patentia batch pages.txt --list --concurrency 8 --output-dir ./json
  patentia batch 'pages/*.html.gz' --timeout 30m --file-timeout 30s`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for JSON files (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&fileTimeout, "file-timeout", 0, "timeout for individual files (0 for none)")
	batchCmd.Flags().BoolVar(&listFile, "list", false, "treat the argument as a file listing input paths")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parse cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if listFile && len(args) != 1 {
		return fmt.Errorf("--list takes exactly one list file, got %d arguments", len(args))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	input := strings.Join(args, " ")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Patentia Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  Cache:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, logger)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, fileTimeout)

	var results []*worker.FileResult
	if listFile {
		fmt.Fprintf(os.Stderr, "⚙️  Reading paths from %s...\n", args[0])
		results, err = processor.ProcessFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("process file: %w", err)
		}
	} else {
		paths, err := worker.ExpandInputs(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "⚙️  Parsing %d files with %d workers...\n", len(paths), cfg.Concurrency.Workers)
		results = processor.ProcessPaths(ctx, paths)
	}
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0
	cachedCount := 0
	names := map[string]bool{}
	renderer := pipeline.NewRenderer(cfg.Output.Indent)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		jsonPath := filepath.Join(cfg.Output.Dir, outputName(result.Path, names))
		if err := renderer.RenderJSON(result.Document, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}

		successCount++
		if result.Document.Cached {
			cachedCount++
		}
		claims, _ := result.Document.SectionCounts()
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d claims, %d warnings, %v)\n",
			result.Path, jsonPath, claims, len(result.Document.Warnings), result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d (%d cached)\n", successCount, cachedCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d files failed", failureCount, len(results))
	}
	return nil
}

// outputName derives the JSON file name for an input path. Repeated
// names get the lowest free numeric suffix; used holds the names handed
// out so far.
func outputName(path string, used map[string]bool) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = sanitizeFilename(name)
	if name == "" {
		name = "page"
	}

	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	used[candidate] = true
	return candidate + ".json"
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// maxFilenameBytes bounds sanitized names, leaving room for a suffix
const maxFilenameBytes = 100

// sanitizeFilename sanitizes a string for use as a filename. Long names
// are cut on a rune boundary.
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(s)
	if len(s) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
