package download

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/se7ensam/orion-graph/internal/logging"
	"github.com/se7ensam/orion-graph/internal/ratelimit"
)

// Filer is the minimal identity needed to drive one CIK's download task.
type Filer struct {
	CompanyName string
	CIK         string
}

// RunOptions configures a download campaign across many filers.
type RunOptions struct {
	Options
	StartYear  int
	EndYear    int
	MaxFilings int
}

// Summary aggregates the outcome of a download campaign.
type Summary struct {
	FilingsDownloaded int
	FilingsSkipped    int
	FilingsFailed     int
}

// RunDownload fans a bounded worker pool out over filers, one task per CIK
// (spec §4.1: "Parallelism is over CIKs, not filings within a CIK"). Every
// outbound HTTP call funnels through the shared regulator so aggregate QPS
// is respected regardless of pool width.
func RunDownload(ctx context.Context, opts RunOptions, filers []Filer, regulator *ratelimit.RateRegulator, log *logging.Logger) (Summary, error) {
	downloader, err := NewDownloader(opts.Options, regulator)
	if err != nil {
		return Summary{}, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var summary Summary
	remaining := opts.MaxFilings // 0 means unlimited

	for _, filer := range filers {
		select {
		case <-ctx.Done():
			wg.Wait()
			return summary, ctx.Err()
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(filer Filer) {
			defer wg.Done()
			defer func() { <-sem }()

			accessions, err := FetchSixKAccessions(ctx, httpClient, regulator, opts.UserAgent, filer.CIK, opts.StartYear, opts.EndYear)
			if err != nil {
				log.Warnf("CIK %s: fetch submissions failed: %v", filer.CIK, err)
				return
			}

			for _, acc := range accessions {
				mu.Lock()
				if opts.MaxFilings > 0 && remaining <= 0 {
					mu.Unlock()
					return
				}
				if opts.MaxFilings > 0 {
					remaining--
				}
				mu.Unlock()

				res := downloader.DownloadFiling(ctx, filer.CompanyName, filer.CIK, acc.Number, acc.FilingDate)

				mu.Lock()
				switch {
				case res.Err != nil:
					summary.FilingsFailed++
				case res.Skipped:
					summary.FilingsSkipped++
				default:
					summary.FilingsDownloaded++
				}
				mu.Unlock()

				if res.Err != nil {
					log.Warnf("CIK %s accession %s: %v", filer.CIK, acc.Number, res.Err)
				}
			}
		}(filer)
	}

	wg.Wait()
	return summary, nil
}
