package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"footprint/internal/export"
	"footprint/internal/model"
	"footprint/internal/pipeline"
	"footprint/internal/session"
	"footprint/internal/store"
)

var (
	extractScanID  string
	extractURLs    []string
	extractSocial  []string
	extractJSON    string
	extractCSV     string
	extractTimeout time.Duration
	llmProvider    string
	llmModel       string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <name>",
	Short: "Run deep extraction on selected results",
	Long: `Extract submits selected results for deep analysis and prints the
backend's exposure report: which kinds of personal information were found,
an overall risk score, and remediation recommendations.

Selection comes either from explicit flags or from a stored scan:
  footprint extract "Jane Doe" --url https://example.com/about
  footprint extract "Jane Doe" --social linkedin=https://linkedin.com/in/janedoe
  footprint extract "Jane Doe" --scan 2f3a...   (uses every result of that scan)

With an LLM provider configured, the report is followed by generated
remediation advice:
  footprint extract "Jane Doe" --scan 2f3a... --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractScanID, "scan", "", "use the results of a stored scan (see 'footprint history')")
	extractCmd.Flags().StringSliceVar(&extractURLs, "url", nil, "webpage URL to analyze (repeatable)")
	extractCmd.Flags().StringSliceVar(&extractSocial, "social", nil, "social profile to analyze as platform=url (repeatable)")
	extractCmd.Flags().StringVar(&extractJSON, "json", "", "write report to JSON file")
	extractCmd.Flags().StringVar(&extractCSV, "csv", "", "write report to CSV file")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 0, "extraction timeout (0 waits indefinitely)")

	// LLM flags
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for advice (openai, anthropic, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	name := args[0]

	ctx := context.Background()
	if extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, extractTimeout)
		defer cancel()
	}

	cfg := loadConfig()
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = extractTimeout
	}
	cfg.Output.Verbose = verbose
	if err := configureLLM(cfg); err != nil {
		return err
	}

	req, err := buildExtractRequest(cfg, name)
	if err != nil {
		return err
	}
	if len(req.SelectedURLs) == 0 && len(req.SelectedSocial) == 0 {
		return fmt.Errorf("nothing selected: pass --url, --social, or --scan")
	}

	log := newLogger()
	p := pipeline.New(cfg, session.FromEnv(), log)

	outcome, err := p.Extract(ctx, req)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	renderer.RenderReport(outcome.Report)
	renderer.RenderAdvice(outcome.Advice)

	if extractJSON != "" {
		if err := export.ReportToFile(extractJSON, outcome.Report); err != nil {
			return fmt.Errorf("export JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", extractJSON)
	}
	if extractCSV != "" {
		if err := export.ReportToFile(extractCSV, outcome.Report); err != nil {
			return fmt.Errorf("export CSV: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", extractCSV)
	}

	if extractScanID != "" && cfg.History.Enabled {
		if err := attachReport(cfg, extractScanID, outcome.Report); err != nil {
			log.Warn().Err(err).Msg("failed to attach report to history")
		}
	}

	return nil
}

// configureLLM wires the LLM flags and environment keys into the config.
func configureLLM(cfg *model.Config) error {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch cfg.LLM.Provider {
	case "":
		return nil
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// buildExtractRequest assembles the selection from flags and, when --scan is
// given, the stored scan's results.
func buildExtractRequest(cfg *model.Config, name string) (model.ExtractRequest, error) {
	req := model.ExtractRequest{
		SearchName:     name,
		SelectedURLs:   extractURLs,
		SelectedSocial: map[string][]string{},
	}

	for _, entry := range extractSocial {
		platform, url, ok := strings.Cut(entry, "=")
		if !ok || platform == "" || url == "" {
			return req, fmt.Errorf("invalid --social value %q (expected platform=url)", entry)
		}
		req.SelectedSocial[platform] = append(req.SelectedSocial[platform], url)
	}

	if extractScanID != "" {
		if err := selectFromHistory(cfg, extractScanID, &req); err != nil {
			return req, err
		}
	}

	return req, nil
}

// selectFromHistory adds every result of a stored scan to the selection.
func selectFromHistory(cfg *model.Config, id string, req *model.ExtractRequest) error {
	s, err := store.Open(historyPath(cfg))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = s.Close() }()

	record, err := s.Get(id)
	if err != nil {
		return fmt.Errorf("load scan: %w", err)
	}
	if record == nil {
		return fmt.Errorf("no scan with id %s (see 'footprint history')", id)
	}

	for _, r := range record.Results.Results {
		platform := r.Platform()
		if platform == "web" {
			req.SelectedURLs = append(req.SelectedURLs, r.SourceURL)
		} else {
			req.SelectedSocial[platform] = append(req.SelectedSocial[platform], r.SourceURL)
		}
	}

	return nil
}

// attachReport stores the report on the originating scan record.
func attachReport(cfg *model.Config, id string, report *model.ExposureReport) error {
	s, err := store.Open(historyPath(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return s.AttachReport(id, report)
}
