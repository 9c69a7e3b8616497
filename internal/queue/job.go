// Package queue implements C5: the file-based durable work queue.
// Coordinator and Worker are independent actors that communicate only
// through atomic directory renames across four sibling directories
// (pending/processing/completed/failed) — the queue directory IS the job's
// state (spec §3, §4.2).
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/se7ensam/orion-graph/internal/domain"
)

// Job is the descriptor persisted as one JSON file per queue entry. The
// UseAIExtraction flag is carried through for format compatibility with
// the source but never consulted by the worker's processing path
// (SPEC_FULL.md §12 Decision O3).
type Job struct {
	CorrelationID    string            `json:"correlation_id"`
	FilingPath       string            `json:"filing_path"`
	FilingName       string            `json:"filing_name"`
	UseAIExtraction  bool              `json:"use_ai_extraction"`
	CreatedAt        float64           `json:"created_at"`
	WorkerID         string            `json:"worker_id,omitempty"`
	CompletedAt      float64           `json:"completed_at,omitempty"`
	Stats            *domain.LoadStats `json:"stats,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// Dirs are the four sibling state directories rooted at a queue directory.
type Dirs struct {
	Root       string
	Pending    string
	Processing string
	Completed  string
	Failed     string
}

// NewDirs derives the four subdirectory paths and creates them.
func NewDirs(root string) (*Dirs, error) {
	d := &Dirs{
		Root:       root,
		Pending:    filepath.Join(root, "pending"),
		Processing: filepath.Join(root, "processing"),
		Completed:  filepath.Join(root, "completed"),
		Failed:     filepath.Join(root, "failed"),
	}
	for _, dir := range []string{d.Pending, d.Processing, d.Completed, d.Failed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create queue dir %s: %w", dir, err)
		}
	}
	return d, nil
}

// NewJobForFiling builds a job descriptor for one on-disk filing, named
// after the filing's stem so accession-keyed lookups stay stable.
func NewJobForFiling(filingPath string, useAI bool, now float64) (name string, job Job) {
	base := filepath.Base(filingPath)
	stem := base[:len(base)-len(filepath.Ext(base))]
	job = Job{
		CorrelationID:   uuid.NewString(),
		FilingPath:      filingPath,
		FilingName:      base,
		UseAIExtraction: useAI,
		CreatedAt:       now,
	}
	return stem + ".json", job
}

func writeJSON(path string, job Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write job file: %w", err)
	}
	return os.Rename(tmp, path)
}

func readJSON(path string) (Job, error) {
	var job Job
	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("read job file: %w", err)
	}
	if err := json.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("decode job file: %w", err)
	}
	return job, nil
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
