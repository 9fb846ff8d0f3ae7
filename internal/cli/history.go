package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"footprint/internal/pipeline"
	"footprint/internal/store"
)

var (
	historyLimit  int
	historyOffset int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored scans",
	Long: `History lists scans stored locally, shows their full results, and
deletes records. Every scan is recorded unless --no-history is passed.

Example:
  footprint history
  footprint history show 2f3a...
  footprint history delete 2f3a...`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored scan's results and report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum scans to list")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "number of scans to skip")
}

func openHistory() (*store.Store, error) {
	return store.Open(historyPath(loadConfig()))
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = s.Close() }()

	records, err := s.List(historyLimit, historyOffset)
	if err != nil {
		return fmt.Errorf("list scans: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No stored scans. Run 'footprint scan <name>' first.")
		return nil
	}

	total, err := s.Count()
	if err != nil {
		return fmt.Errorf("count scans: %w", err)
	}

	fmt.Printf("%d stored scans\n\n", total)
	for _, record := range records {
		report := ""
		if record.Report != nil {
			report = fmt.Sprintf("  report: %d/15 (%s)", record.Report.RiskScore, record.Report.RiskLevel)
		}
		fmt.Printf("%s  %-24q  %3d results  %s%s\n",
			record.ID, record.SearchName, len(record.Results.Results),
			humanize.Time(record.CreatedAt), report)
	}

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = s.Close() }()

	record, err := s.Get(args[0])
	if err != nil {
		return fmt.Errorf("load scan: %w", err)
	}
	if record == nil {
		return fmt.Errorf("no scan with id %s", args[0])
	}

	fmt.Printf("Scan %s (%s)\n", record.ID, humanize.Time(record.CreatedAt))

	renderer := pipeline.NewRenderer(os.Stdout)
	renderer.RenderResults(record.Results)
	if record.Report != nil {
		renderer.RenderReport(record.Report)
	}

	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Delete(args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted scan %s\n", args[0])
	return nil
}
