package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/se7ensam/orion-graph/internal/domain"
	"github.com/se7ensam/orion-graph/internal/filing"
)

// Coordinator converts on-disk filings into durable jobs and reports queue
// progress. Ground truth: original_source/services/coordinator/coordinator.py.
type Coordinator struct {
	dirs  *Dirs
	root  string
	year  string
	limit int
}

// NewCoordinator builds a coordinator rooted at queueDir, scanning
// filingsRoot (optionally scoped to year) for work.
func NewCoordinator(queueDir, filingsRoot, year string, limit int) (*Coordinator, error) {
	dirs, err := NewDirs(queueDir)
	if err != nil {
		return nil, err
	}
	return &Coordinator{dirs: dirs, root: filingsRoot, year: year, limit: limit}, nil
}

// CreateJobs enumerates filings and writes one descriptor into pending/ per
// filing, returning the count created.
func (c *Coordinator) CreateJobs(useAI bool) (int, error) {
	paths, err := filing.ListFilings(c.root, c.year)
	if err != nil {
		return 0, fmt.Errorf("list filings: %w", err)
	}
	if c.limit > 0 && c.limit < len(paths) {
		paths = paths[:c.limit]
	}

	count := 0
	for _, path := range paths {
		name, job := NewJobForFiling(path, useAI, unixNow())
		if err := writeJSON(filepath.Join(c.dirs.Pending, name), job); err != nil {
			return count, fmt.Errorf("write job %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

// Status is the queue's current snapshot (spec §4.2 status()).
type Status struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Progress   float64
}

// Status counts descriptors in each of the four directories.
func (c *Coordinator) Status() (Status, error) {
	counts := make(map[string]int, 4)
	for label, dir := range map[string]string{
		"pending": c.dirs.Pending, "processing": c.dirs.Processing,
		"completed": c.dirs.Completed, "failed": c.dirs.Failed,
	} {
		n, err := countJSONFiles(dir)
		if err != nil {
			return Status{}, fmt.Errorf("count %s: %w", label, err)
		}
		counts[label] = n
	}

	total := counts["pending"] + counts["processing"] + counts["completed"] + counts["failed"]
	progress := 0.0
	if total > 0 {
		progress = float64(counts["completed"]+counts["failed"]) / float64(total) * 100
	}
	return Status{
		Total:      total,
		Pending:    counts["pending"],
		Processing: counts["processing"],
		Completed:  counts["completed"],
		Failed:     counts["failed"],
		Progress:   progress,
	}, nil
}

func countJSONFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			n++
		}
	}
	return n, nil
}

// WaitForCompletion polls status every interval until pending and
// processing both reach zero, or timeout elapses (0 = no timeout).
// progressFn, if non-nil, is called with each snapshot so the caller can
// render a progress line (the source overwrites one line with \r).
func (c *Coordinator) WaitForCompletion(interval, timeout time.Duration, progressFn func(Status, time.Duration)) (Status, error) {
	start := time.Now()
	for {
		status, err := c.Status()
		if err != nil {
			return status, err
		}
		if progressFn != nil {
			progressFn(status, time.Since(start))
		}
		if status.Pending == 0 && status.Processing == 0 {
			return status, nil
		}
		if timeout > 0 && time.Since(start) > timeout {
			return status, nil
		}
		time.Sleep(interval)
	}
}

// AggregateResults sums the Stats of every completed job.
func (c *Coordinator) AggregateResults() (domain.LoadStats, int, error) {
	var agg domain.LoadStats
	entries, err := os.ReadDir(c.dirs.Completed)
	if err != nil {
		return agg, 0, fmt.Errorf("read completed dir: %w", err)
	}

	filingsProcessed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		job, err := readJSON(filepath.Join(c.dirs.Completed, e.Name()))
		if err != nil {
			continue
		}
		if job.Stats != nil {
			agg.Add(*job.Stats)
			filingsProcessed++
		}
	}
	return agg, filingsProcessed, nil
}

// Dirs exposes the coordinator's queue directories for a Worker in the same
// process (single-process `distributed-load worker` mode) to reuse.
func (c *Coordinator) Dirs() *Dirs { return c.dirs }
