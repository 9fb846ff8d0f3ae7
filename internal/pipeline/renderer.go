package pipeline

import (
	"fmt"
	"io"
	"strings"

	"footprint/internal/llm"
	"footprint/internal/model"
	"footprint/internal/verify"
)

// Renderer writes human-readable summaries of scan and extract outcomes.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// riskOrder fixes the display order for risk breakdowns.
var riskOrder = []model.RiskLevel{
	model.RiskCritical,
	model.RiskHigh,
	model.RiskMedium,
	model.RiskLow,
}

// riskMarker maps risk levels to terminal markers.
var riskMarker = map[model.RiskLevel]string{
	model.RiskCritical: "!!",
	model.RiskHigh:     "! ",
	model.RiskMedium:   "~ ",
	model.RiskLow:      ". ",
}

// RenderResults prints a scan summary followed by one line per result.
func (r *Renderer) RenderResults(set *model.ResultSet) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Results for %q (%d found)\n", set.Query, len(set.Results))

	counts := set.CountByRisk()
	var parts []string
	for _, level := range riskOrder {
		if counts[level] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[level], level))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(r.out, "Risk breakdown: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(r.out, "\n")

	for _, res := range set.Results {
		fmt.Fprintf(r.out, "%s [%s] %s\n", riskMarker[res.RiskLevel], res.ID, res.DisplayName)
		fmt.Fprintf(r.out, "     %s\n", res.SourceURL)
		fmt.Fprintf(r.out, "     risk: %s  confidence: %.2f  types: %s\n",
			res.RiskLevel, res.Confidence, strings.Join(res.DataTypes, ", "))
		if res.Snippet != "" {
			fmt.Fprintf(r.out, "     %s\n", truncate(res.Snippet, 120))
		}
	}
}

// RenderVerification prints URL verification results after a scan.
func (r *Renderer) RenderVerification(results []verify.Result) {
	if len(results) == 0 {
		return
	}

	accessible, dead, skipped := 0, 0, 0
	for _, res := range results {
		switch {
		case res.Skipped:
			skipped++
		case res.Accessible:
			accessible++
		default:
			dead++
		}
	}

	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Verification: %d accessible, %d dead, %d skipped\n", accessible, dead, skipped)
	for _, res := range results {
		switch {
		case res.Skipped:
			fmt.Fprintf(r.out, "  - %s (skipped: robots.txt)\n", res.URL)
		case !res.Accessible:
			fmt.Fprintf(r.out, "  x %s (HTTP %d)\n", res.URL, res.StatusCode)
		case res.RedirectURL != "":
			fmt.Fprintf(r.out, "  > %s -> %s\n", res.URL, res.RedirectURL)
		}
	}
}

// RenderReport prints an exposure report summary.
func (r *Renderer) RenderReport(report *model.ExposureReport) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Exposure report for %q\n", report.SearchName)
	fmt.Fprintf(r.out, "Risk: %d/15 (%s)\n", report.RiskScore, report.RiskLevel)
	fmt.Fprintf(r.out, "Processed: %d pages, %d profiles, %d PII items\n",
		report.Summary.PagesProcessed, report.Summary.ProfilesProcessed,
		report.Summary.PIIItemsFound)

	if len(report.Categories) > 0 {
		fmt.Fprintf(r.out, "\nExposed data:\n")
		for _, cat := range report.Categories {
			fmt.Fprintf(r.out, "  %-24s %d\n", cat.Name, cat.Count)
			for _, example := range cat.Examples {
				fmt.Fprintf(r.out, "    %s\n", example)
			}
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(r.out, "\nRecommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(r.out, "  - %s\n", rec)
		}
	}
}

// RenderAdvice prints LLM-generated advice below the report.
func (r *Renderer) RenderAdvice(advice *llm.AdviseResponse) {
	if advice == nil || advice.Advice == "" {
		return
	}

	fmt.Fprintf(r.out, "\nAdvice (%s):\n", advice.Model)
	for _, line := range strings.Split(advice.Advice, "\n") {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
