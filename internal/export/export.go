// Package export serializes result sets and exposure reports to JSON and
// CSV. The mappings are direct field-to-column/field-to-key translations
// with no additional semantics.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"footprint/internal/model"
	"footprint/internal/normalize"
)

// WriteResultsJSON writes a result set as indented JSON.
func WriteResultsJSON(w io.Writer, set *model.ResultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// resultColumns is the CSV header for normalized results.
var resultColumns = []string{
	"id", "display_name", "source_url", "platform", "domain",
	"risk_level", "confidence", "data_types", "snippet", "found_at",
}

// WriteResultsCSV writes one row per normalized result.
func WriteResultsCSV(w io.Writer, set *model.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range set.Results {
		row := []string{
			r.ID,
			r.DisplayName,
			r.SourceURL,
			r.Platform(),
			normalize.ResultDomain(r),
			string(r.RiskLevel),
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			strings.Join(r.DataTypes, "; "),
			r.Snippet,
			r.FoundAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteReportJSON writes an exposure report as indented JSON.
func WriteReportJSON(w io.Writer, report *model.ExposureReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// reportColumns is the CSV header for exposure reports, one row per PII
// category with the report-level fields repeated.
var reportColumns = []string{
	"search_name", "risk_score", "risk_level", "category", "count", "examples",
}

// WriteReportCSV writes one row per PII category. A report without
// categories yields a single row with empty category fields.
func WriteReportCSV(w io.Writer, report *model.ExposureReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	base := []string{
		report.SearchName,
		strconv.Itoa(report.RiskScore),
		string(report.RiskLevel),
	}

	if len(report.Categories) == 0 {
		if err := cw.Write(append(base, "", "", "")); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	for _, cat := range report.Categories {
		row := append(base, cat.Name, strconv.Itoa(cat.Count), strings.Join(cat.Examples, "; "))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ResultsToFile writes a result set to path, picking the format from the
// file extension (.json or .csv).
func ResultsToFile(path string, set *model.ResultSet) error {
	return toFile(path, func(w io.Writer, ext string) error {
		if ext == ".csv" {
			return WriteResultsCSV(w, set)
		}
		return WriteResultsJSON(w, set)
	})
}

// ReportToFile writes an exposure report to path, picking the format from
// the file extension (.json or .csv).
func ReportToFile(path string, report *model.ExposureReport) error {
	return toFile(path, func(w io.Writer, ext string) error {
		if ext == ".csv" {
			return WriteReportCSV(w, report)
		}
		return WriteReportJSON(w, report)
	})
}

func toFile(path string, write func(io.Writer, string) error) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".csv" {
		return fmt.Errorf("unsupported export format %q (use .json or .csv)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := write(f, ext); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
