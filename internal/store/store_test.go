package store

import (
	"path/filepath"
	"testing"
	"time"

	"footprint/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSet(query string) *model.ResultSet {
	return &model.ResultSet{
		Query:     query,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Results: []model.NormalizedResult{
			{
				ID:          "webpage-0",
				DisplayName: "Jane Doe",
				SourceURL:   "https://a.com",
				RiskLevel:   model.RiskMedium,
				DataTypes:   []string{"Web Presence", "Personal Information"},
				Confidence:  0.5,
				FoundAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestSaveScanAndGet(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.SaveScan(sampleSet("jane doe"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Expected a generated id")
	}

	got, err := s.Get(saved.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if got.SearchName != "jane doe" {
		t.Errorf("Expected search name jane doe, got %q", got.SearchName)
	}
	if len(got.Results.Results) != 1 || got.Results.Results[0].ID != "webpage-0" {
		t.Errorf("Unexpected stored results: %+v", got.Results)
	}
	if got.Report != nil {
		t.Errorf("Expected no report on fresh scan, got %+v", got.Report)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for unknown id, got %+v", got)
	}
}

func TestAttachReport(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.SaveScan(sampleSet("jane doe"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	report := &model.ExposureReport{
		SearchName: "jane doe",
		RiskScore:  11,
		RiskLevel:  model.RiskHigh,
		Categories: []model.PIICategory{{Name: "Email Addresses", Count: 2}},
	}
	if err := s.AttachReport(saved.ID, report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := s.Get(saved.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Report == nil {
		t.Fatal("Expected attached report")
	}
	if got.Report.RiskScore != 11 || len(got.Report.Categories) != 1 {
		t.Errorf("Unexpected report: %+v", got.Report)
	}
}

func TestAttachReport_UnknownScan(t *testing.T) {
	s := openTestStore(t)

	err := s.AttachReport("missing", &model.ExposureReport{})
	if err == nil {
		t.Fatal("Expected error for unknown scan id")
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)

	first, err := s.SaveScan(sampleSet("first"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Force distinct created_at values.
	_, err = s.conn.Exec(`UPDATE scans SET created_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-time.Hour), first.ID)
	if err != nil {
		t.Fatalf("Failed to backdate record: %v", err)
	}
	if _, err := s.SaveScan(sampleSet("second")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, err := s.List(10, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].SearchName != "second" || records[1].SearchName != "first" {
		t.Errorf("Expected newest first, got %q then %q",
			records[0].SearchName, records[1].SearchName)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.SaveScan(sampleSet("jane"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.Delete(saved.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := s.Get(saved.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected record gone after delete, got %+v", got)
	}

	if err := s.Delete(saved.ID); err == nil {
		t.Error("Expected error deleting already-deleted scan")
	}
}

func TestCount(t *testing.T) {
	s := openTestStore(t)

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0, got %d", count)
	}

	if _, err := s.SaveScan(sampleSet("jane")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	count, err = s.Count()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1, got %d", count)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	if _, err := s.SaveScan(sampleSet("jane")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 1 {
		t.Errorf("Expected data to survive reopen, got count %d", count)
	}
}
