// Package store persists scan history locally in SQLite. Result sets and
// reports are stored as JSON documents keyed by a generated scan id.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"footprint/internal/model"
)

// Store wraps the history database.
type Store struct {
	conn *sql.DB
}

// ScanRecord is one persisted scan, with the exposure report attached once
// an extraction has been run for it.
type ScanRecord struct {
	ID         string
	SearchName string
	Results    *model.ResultSet
	Report     *model.ExposureReport
	CreatedAt  time.Time
}

// Open opens (or creates) the history database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// The history store is single-user and local.
	conn.SetMaxOpenConns(1)

	if err := migrate(conn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveScan persists a result set and returns the stored record.
func (s *Store) SaveScan(set *model.ResultSet) (*ScanRecord, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	record := &ScanRecord{
		ID:         uuid.NewString(),
		SearchName: set.Query,
		Results:    set,
		CreatedAt:  time.Now().UTC(),
	}

	_, err = s.conn.Exec(
		`INSERT INTO scans (id, search_name, results, created_at) VALUES (?, ?, ?, ?)`,
		record.ID, record.SearchName, string(payload), record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save scan: %w", err)
	}

	return record, nil
}

// AttachReport stores an exposure report on an existing scan.
func (s *Store) AttachReport(id string, report *model.ExposureReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	result, err := s.conn.Exec(`UPDATE scans SET report = ? WHERE id = ?`, string(payload), id)
	if err != nil {
		return fmt.Errorf("attach report: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no scan with id %s", id)
	}

	return nil
}

// Get retrieves a scan by id, or nil when not found.
func (s *Store) Get(id string) (*ScanRecord, error) {
	row := s.conn.QueryRow(
		`SELECT id, search_name, results, report, created_at FROM scans WHERE id = ?`, id)

	record, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query scan: %w", err)
	}
	return record, nil
}

// List returns scans ordered newest first.
func (s *Store) List(limit, offset int) ([]*ScanRecord, error) {
	rows, err := s.conn.Query(
		`SELECT id, search_name, results, report, created_at FROM scans
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*ScanRecord
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// Delete removes a scan by id.
func (s *Store) Delete(id string) error {
	result, err := s.conn.Exec(`DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no scan with id %s", id)
	}
	return nil
}

// Count returns the number of stored scans.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(row rowScanner) (*ScanRecord, error) {
	var (
		record     ScanRecord
		resultsDoc string
		reportDoc  sql.NullString
	)
	if err := row.Scan(&record.ID, &record.SearchName, &resultsDoc, &reportDoc, &record.CreatedAt); err != nil {
		return nil, err
	}

	var set model.ResultSet
	if err := json.Unmarshal([]byte(resultsDoc), &set); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	record.Results = &set

	if reportDoc.Valid && reportDoc.String != "" {
		var report model.ExposureReport
		if err := json.Unmarshal([]byte(reportDoc.String), &report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		record.Report = &report
	}

	return &record, nil
}
