// Package worker runs concurrent batch scans over lists of names.
package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"footprint/internal/pipeline"
)

// Scanner defines the interface for scanning a single name.
type Scanner interface {
	Scan(ctx context.Context, name string, opts pipeline.ScanOptions) (*pipeline.ScanOutcome, error)
}

// ScanJob scans one name.
type ScanJob struct {
	Name    string
	Options pipeline.ScanOptions
	Scanner Scanner
}

// Execute runs the scan job.
func (j *ScanJob) Execute(ctx context.Context) Result {
	outcome, err := j.Scanner.Scan(ctx, j.Name, j.Options)
	if err != nil {
		return &ScanResult{Name: j.Name, Error: err}
	}
	return &ScanResult{Name: j.Name, Outcome: outcome}
}

// ScanResult is the result of a batch scan job.
type ScanResult struct {
	Name    string
	Outcome *pipeline.ScanOutcome
	Error   error
}

// GetError returns the error from the scan result.
func (r *ScanResult) GetError() error {
	return r.Error
}

// BatchProcessor scans multiple names concurrently.
type BatchProcessor struct {
	scanner     Scanner
	options     pipeline.ScanOptions
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(scanner Scanner, options pipeline.ScanOptions, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		options:     options,
		concurrency: concurrency,
	}
}

// ProcessNames scans the given names concurrently.
func (b *BatchProcessor) ProcessNames(ctx context.Context, names []string) []*ScanResult {
	if len(names) == 0 {
		return []*ScanResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, name := range names {
		pool.Submit(&ScanJob{
			Name:    name,
			Options: b.options,
			Scanner: b.scanner,
		})
	}

	results := pool.Wait()

	scanResults := make([]*ScanResult, len(results))
	for i, result := range results {
		scanResults[i] = result.(*ScanResult)
	}

	return scanResults
}

// ProcessFile reads names from a file and scans them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	names, err := ReadNamesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}

	return b.ProcessNames(ctx, names), nil
}

// ReadNamesFromFile reads names from a file (one per line). Empty lines and
// lines starting with # are skipped; duplicates are dropped.
func ReadNamesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			names = append(names, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return names, nil
}
