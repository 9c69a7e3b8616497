package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/se7ensam/orion-graph/internal/domain"
	"github.com/se7ensam/orion-graph/internal/logging"
)

// Processor is the C3+C4 invocation a Worker drives per job. Implemented by
// *graphextract.Builder in production; a narrow interface here keeps the
// queue package free of a graph-store dependency.
type Processor interface {
	ProcessFiling(ctx context.Context, path string) (domain.LoadStats, error)
}

// Worker drains pending/, claims jobs by atomic rename, invokes a
// Processor, and transitions jobs to a terminal directory. Ground truth:
// original_source/services/worker/worker.py.
type Worker struct {
	id        string
	dirs      *Dirs
	processor Processor
	log       *logging.Logger
	running   atomic.Bool
}

// NewWorker builds a worker bound to dirs and processor.
func NewWorker(id string, dirs *Dirs, processor Processor, log *logging.Logger) *Worker {
	w := &Worker{id: id, dirs: dirs, processor: processor, log: log}
	w.running.Store(true)
	return w
}

// Stop flips the shared running flag; the worker finishes its in-flight job
// and exits (spec §4.2 point 6, §5 Cancellation).
func (w *Worker) Stop() {
	w.running.Store(false)
}

// Run executes the worker loop until Stop is called or ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for w.running.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		claimedPath, ok, err := w.claimNext()
		if err != nil {
			return fmt.Errorf("claim job: %w", err)
		}
		if !ok {
			time.Sleep(1 * time.Second)
			continue
		}

		w.processClaimed(ctx, claimedPath)
	}
	return nil
}

// claimNext polls pending/ in lexicographic order and claims the first
// entry by renaming it into processing/ with a worker-id prefix. A rename
// failure means another worker won the race; the caller loops immediately
// without backoff (spec §4.2 point 2).
func (w *Worker) claimNext() (string, bool, error) {
	entries, err := os.ReadDir(w.dirs.Pending)
	if err != nil {
		return "", false, fmt.Errorf("read pending dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		src := filepath.Join(w.dirs.Pending, name)
		dst := filepath.Join(w.dirs.Processing, w.id+"_"+name)
		if err := os.Rename(src, dst); err != nil {
			continue // lost the race; try the next candidate immediately
		}
		return dst, true, nil
	}
	return "", false, nil
}

// processClaimed invokes the processor on the claimed job, writes the
// updated descriptor (still in processing/), and transitions it to a
// terminal directory, retaining the worker-id prefix through the rename
// (SPEC_FULL.md §4.2 point 4, §12 Decision O4).
func (w *Worker) processClaimed(ctx context.Context, claimedPath string) {
	job, err := readJSON(claimedPath)
	if err != nil {
		w.log.Errorf("corrupt job descriptor %s: %v", claimedPath, err)
		w.finalize(claimedPath, job, fmt.Errorf("corrupt descriptor: %w", err))
		return
	}

	if _, err := os.Stat(job.FilingPath); err != nil {
		w.finalize(claimedPath, job, fmt.Errorf("filing path missing: %w", err))
		return
	}

	stats, procErr := w.processor.ProcessFiling(ctx, job.FilingPath)
	job.WorkerID = w.id
	job.CompletedAt = unixNow()
	job.Stats = &stats
	if procErr != nil {
		job.Error = procErr.Error()
	}

	if err := writeJSON(claimedPath, job); err != nil {
		w.log.Errorf("write job result %s: %v", claimedPath, err)
	}

	w.finalize(claimedPath, job, procErr)
}

func (w *Worker) finalize(claimedPath string, job Job, procErr error) {
	name := filepath.Base(claimedPath)
	var dst string
	if procErr != nil {
		dst = filepath.Join(w.dirs.Failed, name)
	} else {
		dst = filepath.Join(w.dirs.Completed, name)
	}
	if err := os.Rename(claimedPath, dst); err != nil {
		w.log.Errorf("finalize job %s: %v", name, err)
	}
}
