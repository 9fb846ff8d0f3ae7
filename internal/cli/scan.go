package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"footprint/internal/export"
	"footprint/internal/model"
	"footprint/internal/normalize"
	"footprint/internal/pipeline"
	"footprint/internal/session"
	"footprint/internal/store"
)

var (
	outJSON         string
	outCSV          string
	scanTimeout     time.Duration
	userAgent       string
	noCache         bool
	noHistory       bool
	doVerify        bool
	filterPlatforms []string
	filterRisks     []string
	filterDomains   []string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <name>",
	Short: "Search for a person's public data exposure",
	Long: `Scan searches the exposure backend for a name and lists every finding
with a derived risk level, data-type tags, and a confidence score.

Results can be filtered by platform, risk level, or domain, exported to
JSON or CSV, and optionally verified for link accessibility.

Example:
  footprint scan "Jane Doe"
  footprint scan "Jane Doe" --risk high --risk critical
  footprint scan "Jane Doe" --platform linkedin --json results.json
  footprint scan "Jane Doe" --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "write results to JSON file")
	scanCmd.Flags().StringVar(&outCSV, "csv", "", "write results to CSV file")

	// HTTP flags
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "overall scan timeout (0 waits indefinitely)")
	scanCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh search)")
	scanCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this scan in history")

	// Verification flags
	scanCmd.Flags().BoolVar(&doVerify, "verify", false, "check each result URL for accessibility")

	// Filter flags
	scanCmd.Flags().StringSliceVar(&filterPlatforms, "platform", nil, "only results from these platforms (e.g. linkedin, web)")
	scanCmd.Flags().StringSliceVar(&filterRisks, "risk", nil, "only results at these risk levels (low, medium, high, critical)")
	scanCmd.Flags().StringSliceVar(&filterDomains, "domain", nil, "only results from these domains")
}

func runScan(cmd *cobra.Command, args []string) error {
	name := args[0]

	ctx := context.Background()
	if scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scanTimeout)
		defer cancel()
	}

	criteria, err := buildCriteria()
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = scanTimeout
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.Verbose = verbose

	log := newLogger()
	p := pipeline.New(cfg, session.FromEnv(), log)

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", name)
		fmt.Fprintf(os.Stderr, "Backend:  %s\n", cfg.Backend.BaseURL)
		fmt.Fprintf(os.Stderr, "Cache:    %v\n\n", cfg.Cache.Enabled)
	}

	outcome, err := p.Scan(ctx, name, pipeline.ScanOptions{
		Verify:   doVerify,
		Criteria: criteria,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	renderer.RenderResults(outcome.Set)
	renderer.RenderVerification(outcome.Verification)

	if outJSON != "" {
		if err := export.ResultsToFile(outJSON, outcome.Set); err != nil {
			return fmt.Errorf("export JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outJSON)
	}
	if outCSV != "" {
		if err := export.ResultsToFile(outCSV, outcome.Set); err != nil {
			return fmt.Errorf("export CSV: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outCSV)
	}

	if cfg.History.Enabled && !noHistory {
		if err := recordScan(cfg, outcome.Set); err != nil {
			log.Warn().Err(err).Msg("failed to record scan in history")
		}
	}

	return nil
}

// buildCriteria validates and assembles the filter flags.
func buildCriteria() (normalize.Criteria, error) {
	var criteria normalize.Criteria
	criteria.Platforms = filterPlatforms
	criteria.Domains = filterDomains

	for _, r := range filterRisks {
		level := model.RiskLevel(r)
		if !level.Valid() {
			return criteria, fmt.Errorf("invalid risk level %q (use low, medium, high, critical)", r)
		}
		criteria.RiskLevels = append(criteria.RiskLevels, level)
	}

	return criteria, nil
}

// recordScan saves the result set to the local history store.
func recordScan(cfg *model.Config, set *model.ResultSet) error {
	s, err := store.Open(historyPath(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	record, err := s.SaveScan(set)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nSaved to history: %s\n", record.ID)
	return nil
}
