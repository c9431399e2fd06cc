// Package report persists the results of a run and presents them: JSON storage of the last
// run, spreadsheet export, a summary table, a progress bar, and an interactive failure viewer.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/trxmining/api-contract-tests/framework"
)

// RunMeta describes a run as a whole.
type RunMeta struct {
	Version         string  `json:"version"`
	BaseURL         string  `json:"baseUrl"`
	StartedAt       string  `json:"startedAt"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"durationSeconds"`
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	SuccessRate     float64 `json:"successRate"`
	Interrupted     bool    `json:"interrupted,omitempty"`
}

// RunRecord is what gets saved after a run: the metadata and the full result log in order.
type RunRecord struct {
	Meta    RunMeta                `json:"meta"`
	Results []framework.TestResult `json:"results"`
}

// NewRunRecord captures the current state of a result log.
func NewRunRecord(log *framework.ResultLog, baseURL string, startedAt time.Time, duration time.Duration, interrupted bool) RunRecord {
	summary := log.Summary()
	return RunRecord{
		Meta: RunMeta{
			Version:         framework.Version,
			BaseURL:         baseURL,
			StartedAt:       startedAt.Format(time.RFC3339),
			Duration:        duration.Round(time.Millisecond).String(),
			DurationSeconds: duration.Seconds(),
			Total:           summary.Total,
			Passed:          summary.Passed,
			Failed:          summary.Failed,
			SuccessRate:     summary.SuccessRate,
			Interrupted:     interrupted,
		},
		Results: log.Results(),
	}
}

// Summary recomputes the run summary from the saved results.
func (r RunRecord) Summary() framework.RunSummary {
	return framework.Summarize(r.Results)
}

// Storage persists and loads run records (for instance, for the failures viewer).
type Storage interface {
	Save(record RunRecord) error
	Load() (*RunRecord, error)
}

// JSONStorage stores the last run in a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads and writes the given path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

func (s *JSONStorage) Path() string {
	return s.path
}

// Save writes the record, creating the parent directory if necessary.
func (s *JSONStorage) Save(record RunRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last saved record.
func (s *JSONStorage) Load() (*RunRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &record, nil
}
