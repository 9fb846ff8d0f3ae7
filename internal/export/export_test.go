package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"footprint/internal/model"
)

func sampleSet() *model.ResultSet {
	return &model.ResultSet{
		Query:     "jane doe",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Results: []model.NormalizedResult{
			{
				ID:          "social-webpage-0",
				DisplayName: "Jane Doe - LinkedIn",
				SourceURL:   "https://linkedin.com/in/janedoe",
				RiskLevel:   model.RiskCritical,
				DataTypes:   []string{"LinkedIn Profile", "Personal Information"},
				Confidence:  0.9,
				FoundAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				ID:          "social-facebook-1",
				DisplayName: "Bob Smith",
				SourceURL:   "https://facebook.com",
				RiskLevel:   model.RiskHigh,
				DataTypes:   []string{"Facebook Profile", "Social Media", "Personal Information"},
				Confidence:  0.8,
				FoundAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestWriteResultsJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultsJSON(&buf, sampleSet()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded model.ResultSet
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Exported JSON does not decode: %v", err)
	}
	if decoded.Query != "jane doe" || len(decoded.Results) != 2 {
		t.Errorf("Unexpected decoded set: %+v", decoded)
	}
}

func TestWriteResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultsCSV(&buf, sampleSet()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Exported CSV does not parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][0] != "social-webpage-0" || rows[1][5] != "critical" {
		t.Errorf("Unexpected first row: %v", rows[1])
	}
	if !strings.Contains(rows[2][7], "Social Media") {
		t.Errorf("Expected joined data types, got %q", rows[2][7])
	}
}

func TestWriteReportCSV(t *testing.T) {
	report := &model.ExposureReport{
		SearchName: "jane doe",
		RiskScore:  11,
		RiskLevel:  model.RiskHigh,
		Categories: []model.PIICategory{
			{Name: "Email Addresses", Count: 2, Examples: []string{"j***@example.com"}},
			{Name: "Phone Numbers", Count: 1},
		},
	}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Exported CSV does not parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 category rows, got %d", len(rows))
	}
	if rows[1][3] != "Email Addresses" || rows[1][1] != "11" {
		t.Errorf("Unexpected category row: %v", rows[1])
	}
}

func TestWriteReportCSV_NoCategories(t *testing.T) {
	report := &model.ExposureReport{SearchName: "jane", RiskScore: 0, RiskLevel: model.RiskLow}

	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Exported CSV does not parse: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected header + 1 placeholder row, got %d", len(rows))
	}
}

func TestResultsToFile_RejectsUnknownExtension(t *testing.T) {
	err := ResultsToFile("results.xml", sampleSet())
	if err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
}
