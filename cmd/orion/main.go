package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/se7ensam/orion-graph/internal/config"
	"github.com/se7ensam/orion-graph/internal/download"
	"github.com/se7ensam/orion-graph/internal/edgarindex"
	"github.com/se7ensam/orion-graph/internal/extractclient"
	"github.com/se7ensam/orion-graph/internal/graphextract"
	"github.com/se7ensam/orion-graph/internal/graphstore"
	"github.com/se7ensam/orion-graph/internal/logging"
	"github.com/se7ensam/orion-graph/internal/queue"
	"github.com/se7ensam/orion-graph/internal/ratelimit"
	"github.com/se7ensam/orion-graph/internal/report"
)

var log = logging.New("orion")

func main() {
	app := &cli.App{
		Name:  "orion",
		Usage: "SEC 6-K filing ingestion and property-graph loader",
		Commands: []*cli.Command{
			downloadCommand(),
			setupDBCommand(),
			clearGraphCommand(),
			loadGraphCommand(),
			distributedLoadCommand(),
			testDBCommand(),
			queryCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT/SIGTERM, matching the
// exit-code contract of SPEC_FULL.md §6 (0 success, 1 on handled error or
// SIGINT), grounded on standardbeagle-lci/cmd/lci/main.go's mcpCommand
// signal handling.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Warnf("received signal %v, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Collect 6-K filers from EDGAR and download their filings",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start-year", Required: true},
			&cli.IntFlag{Name: "end-year", Required: true},
			&cli.BoolFlag{Name: "no-skip-existing"},
			&cli.StringFlag{Name: "download-dir"},
			&cli.IntFlag{Name: "max-filings"},
			&cli.IntFlag{Name: "max-workers"},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg := config.Load()
			downloadDir := c.String("download-dir")
			if downloadDir == "" {
				downloadDir = cfg.FilingsDir()
			}
			maxWorkers := c.Int("max-workers")
			if maxWorkers <= 0 {
				maxWorkers = cfg.MaxWorkers
			}

			regulator := ratelimit.NewRegulator(cfg.RateLimitRPS, ratelimit.DefaultMinSpacing)

			indexFetcher := edgarindex.NewFetcher(regulator, cfg.UserAgent, cfg.MetadataDir())
			filers, err := indexFetcher.CollectFilers(ctx, c.Int("start-year"), c.Int("end-year"))
			if err != nil {
				return fmt.Errorf("collect filers: %w", err)
			}
			log.Infof("collected %d filers", len(filers))

			if err := edgarindex.SaveFilerList(filepath.Join(cfg.MetadataDir(), "filers.csv"), filers); err != nil {
				log.Warnf("save filer list: %v", err)
			}

			runFilers := make([]download.Filer, len(filers))
			for i, f := range filers {
				runFilers[i] = download.Filer{CompanyName: f.CompanyName, CIK: f.CIK}
			}

			opts := download.RunOptions{
				Options: download.Options{
					RootDir:      downloadDir,
					SkipExisting: !c.Bool("no-skip-existing"),
					UserAgent:    cfg.UserAgent,
					MaxWorkers:   maxWorkers,
				},
				StartYear:  c.Int("start-year"),
				EndYear:    c.Int("end-year"),
				MaxFilings: c.Int("max-filings"),
			}

			summary, err := download.RunDownload(ctx, opts, runFilers, regulator, log)
			if err != nil {
				return fmt.Errorf("run download: %w", err)
			}
			log.Infof("downloaded=%d skipped=%d failed=%d", summary.FilingsDownloaded, summary.FilingsSkipped, summary.FilingsFailed)
			return checkInterrupted(ctx)
		},
	}
}

func setupDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup-db",
		Usage: "Create graph schema constraints and indexes",
		Action: func(c *cli.Context) error {
			ctx, cancel := signalContext()
			defer cancel()

			store, err := connectStore(ctx)
			if err != nil {
				return err
			}
			if err := store.SetupSchema(ctx); err != nil {
				return fmt.Errorf("setup schema: %w", err)
			}
			log.Infof("schema ready")
			return checkInterrupted(ctx)
		},
	}
}

func clearGraphCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear-graph",
		Usage: "Delete all nodes and relationships from the graph",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "confirm"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("confirm") {
				fmt.Fprintln(os.Stderr, "refusing to clear the graph without --confirm")
				return cli.Exit("", 1)
			}
			ctx, cancel := signalContext()
			defer cancel()

			store, err := connectStore(ctx)
			if err != nil {
				return err
			}
			if err := store.ClearGraph(ctx); err != nil {
				return fmt.Errorf("clear graph: %w", err)
			}
			log.Infof("graph cleared")
			return checkInterrupted(ctx)
		},
	}
}

func loadGraphCommand() *cli.Command {
	return &cli.Command{
		Name:  "load-graph",
		Usage: "Parse downloaded filings and upsert entities into the graph",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "year"},
			&cli.IntFlag{Name: "limit"},
			&cli.BoolFlag{Name: "skip-schema"},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg := config.Load()
			store, err := connectStore(ctx)
			if err != nil {
				return err
			}
			if !c.Bool("skip-schema") {
				if err := store.SetupSchema(ctx); err != nil {
					return fmt.Errorf("setup schema: %w", err)
				}
			}

			builder := graphextract.NewBuilder(store, log)
			start := time.Now()
			agg, err := builder.ProcessFilings(ctx, cfg.FilingsDir(), c.String("year"), c.Int("limit"))
			if err != nil {
				return fmt.Errorf("process filings: %w", err)
			}

			summary := report.Render(report.Summary{
				Command:          "load-graph",
				FilingsProcessed: agg.FilingsProcessed,
				Stats:            agg.LoadStats,
				Elapsed:          time.Since(start),
			})
			fmt.Println(summary)
			return checkInterrupted(ctx)
		},
	}
}

func distributedLoadCommand() *cli.Command {
	return &cli.Command{
		Name:  "distributed-load",
		Usage: "Run the file-based work queue (create jobs, report status, wait, or act as a worker)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "year"},
			&cli.IntFlag{Name: "limit"},
			&cli.StringFlag{Name: "queue-dir"},
			&cli.BoolFlag{Name: "no-ai"},
			&cli.BoolFlag{Name: "wait"},
			&cli.StringFlag{Name: "worker-id"},
		},
		Action: func(c *cli.Context) error {
			verb := c.Args().First()
			if verb == "" {
				verb = "status"
			}

			ctx, cancel := signalContext()
			defer cancel()

			cfg := config.Load()
			queueDir := c.String("queue-dir")
			if queueDir == "" {
				queueDir = cfg.QueueDir()
			}

			coord, err := queue.NewCoordinator(queueDir, cfg.FilingsDir(), c.String("year"), c.Int("limit"))
			if err != nil {
				return fmt.Errorf("build coordinator: %w", err)
			}

			switch verb {
			case "create":
				count, err := coord.CreateJobs(!c.Bool("no-ai"))
				if err != nil {
					return fmt.Errorf("create jobs: %w", err)
				}
				log.Infof("created %d jobs", count)

			case "status":
				status, err := coord.Status()
				if err != nil {
					return fmt.Errorf("status: %w", err)
				}
				printStatus(status)

			case "wait":
				status, err := coord.WaitForCompletion(1*time.Second, 0, func(s queue.Status, elapsed time.Duration) {
					fmt.Printf("\rprogress=%.1f%% pending=%d processing=%d completed=%d failed=%d (%s)",
						s.Progress, s.Pending, s.Processing, s.Completed, s.Failed, elapsed.Round(time.Second))
				})
				fmt.Println()
				if err != nil {
					return fmt.Errorf("wait for completion: %w", err)
				}
				printStatus(status)

				agg, processed, err := coord.AggregateResults()
				if err != nil {
					return fmt.Errorf("aggregate results: %w", err)
				}
				summary := report.Render(report.Summary{
					Command:          "distributed-load",
					FilingsProcessed: processed,
					Stats:            agg,
					Failed:           status.Failed,
				})
				fmt.Println(summary)

			case "worker":
				store, err := connectStore(ctx)
				if err != nil {
					return err
				}
				builder := graphextract.NewBuilder(store, log)
				workerID := c.String("worker-id")
				if workerID == "" {
					workerID = fmt.Sprintf("worker-%d", os.Getpid())
				}
				w := queue.NewWorker(workerID, coord.Dirs(), builder, log)
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("worker run: %w", err)
				}

			default:
				return fmt.Errorf("unknown distributed-load verb %q (want create|status|wait|worker)", verb)
			}

			if c.Bool("wait") && verb == "create" {
				status, err := coord.WaitForCompletion(1*time.Second, 0, nil)
				if err != nil {
					return fmt.Errorf("wait for completion: %w", err)
				}
				printStatus(status)
			}

			return checkInterrupted(ctx)
		},
	}
}

func printStatus(s queue.Status) {
	fmt.Printf("total=%d pending=%d processing=%d completed=%d failed=%d progress=%.1f%%\n",
		s.Total, s.Pending, s.Processing, s.Completed, s.Failed, s.Progress)
}

func testDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "test-db",
		Usage: "Verify connectivity to the graph store",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "neo4j"},
			&cli.BoolFlag{Name: "oracle"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("oracle") {
				return fmt.Errorf("test-db --oracle: no Oracle backend is wired in this module")
			}
			ctx, cancel := signalContext()
			defer cancel()

			store, err := connectStore(ctx)
			if err != nil {
				return err
			}
			if err := store.TestConnection(ctx); err != nil {
				return fmt.Errorf("test connection: %w", err)
			}
			nodes, rels, err := store.CountNodesAndRelationships(ctx)
			if err != nil {
				return fmt.Errorf("count graph: %w", err)
			}
			log.Infof("connection ok: nodes=%d relationships=%d", nodes, rels)
			return checkInterrupted(ctx)
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Translate a natural-language question into a graph query (inert AI seam)",
		ArgsUsage: "\"<nl>\"",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "show-cypher"},
			&cli.IntFlag{Name: "max-rows", Value: 50},
			&cli.StringFlag{Name: "model"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errors.New(`usage: orion query "<nl>"`)
			}
			prompt := c.Args().First()

			if model := c.String("model"); model != "" {
				if err := extractclient.DefaultProvisioner.Ensure(context.Background(), model); err != nil {
					return fmt.Errorf("query: %w", err)
				}
			}

			client := extractclient.NewClient(nil)
			_, err := client.Extract(context.Background(), prompt)
			if err != nil {
				return fmt.Errorf("query: no AI extraction backend is configured for this module (%w)", err)
			}
			return nil
		},
	}
}

func connectStore(ctx context.Context) (*graphstore.Store, error) {
	cfg := config.Load()
	if err := graphstore.Init(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPass); err != nil {
		return nil, fmt.Errorf("connect graph store: %w", err)
	}
	return graphstore.NewStore()
}

func checkInterrupted(ctx context.Context) error {
	if ctx.Err() != nil {
		return cli.Exit("interrupted", 1)
	}
	return nil
}
