package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"footprint/internal/export"
	"footprint/internal/pipeline"
	"footprint/internal/session"
	"footprint/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchVerify  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan multiple names from a file in parallel",
	Long: `Batch scans multiple names concurrently:
- Read names from input file (one per line, # for comments)
- Scan names in parallel with configurable worker count
- Write one JSON result file per name

Example:
  footprint batch names.txt
  footprint batch names.txt --concurrency 8 --output-dir ./results
  footprint batch names.txt --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./footprint-results", "output directory for result files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchVerify, "verify", false, "check each result URL for accessibility")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh searches)")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Verbose = verbose

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	log := newLogger()
	p := pipeline.New(cfg, session.FromEnv(), log)

	processor := worker.NewBatchProcessor(p, pipeline.ScanOptions{Verify: batchVerify}, concurrency)

	fmt.Fprintf(os.Stderr, "Batch scan: %s (%d workers)\n", file, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "x %s: %v\n", result.Name, result.Error)
			continue
		}

		successCount++

		path := filepath.Join(outputDir, sanitizeFilename(result.Name)+".json")
		if err := export.ResultsToFile(path, result.Outcome.Set); err != nil {
			fmt.Fprintf(os.Stderr, "x %s: failed to write results: %v\n", result.Name, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "+ %s (%d results) -> %s\n", result.Name, len(result.Outcome.Set.Results), path)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d scanned, %d succeeded, %d failed\n",
		len(results), successCount, failureCount)
	fmt.Fprintf(os.Stderr, "Output: %s\n", outputDir)

	return nil
}

// sanitizeFilename makes a name safe for use as a filename.
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(strings.ToLower(s))

	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
