// Package graphstore wraps the Neo4j Go driver behind the upsert
// operations C4 needs. The connection-pool-singleton shape follows
// pkg/core/store/db.go (sync.Once-guarded global pool), adapted from
// Postgres/pgxpool to the Neo4j driver since this domain's store is a
// property graph, not a relational database.
package graphstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var (
	once    sync.Once
	driver  neo4j.DriverWithContext
	initErr error
)

// Init establishes the process-wide Neo4j driver. Safe to call multiple
// times; only the first call dials out.
func Init(ctx context.Context, uri, user, password string) error {
	once.Do(func() {
		d, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
		if err != nil {
			initErr = fmt.Errorf("create neo4j driver: %w", err)
			return
		}
		if err := d.VerifyConnectivity(ctx); err != nil {
			initErr = fmt.Errorf("verify neo4j connectivity: %w", err)
			return
		}
		driver = d
	})
	return initErr
}

// Driver returns the initialized driver, or nil if Init was never called
// successfully.
func Driver() neo4j.DriverWithContext {
	return driver
}

// Close releases the driver. Call once at process shutdown.
func Close(ctx context.Context) error {
	if driver == nil {
		return nil
	}
	return driver.CloseContext(ctx)
}

// Store executes Cypher against the shared driver, one session per logical
// unit of work (a single upsert or a single schema statement), matching the
// per-statement-atomic assumption in spec §4.4.
type Store struct {
	driver neo4j.DriverWithContext
}

// NewStore wraps the process-wide driver. Callers must have called Init
// first.
func NewStore() (*Store, error) {
	if driver == nil {
		return nil, fmt.Errorf("graph driver not initialized: call graphstore.Init first")
	}
	return &Store{driver: driver}, nil
}

// Run executes a single Cypher statement with parameters in a managed write
// transaction on its own session, discarding the result records.
func (s *Store) Run(ctx context.Context, cypher string, params map[string]any) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return nil, res.Err()
	})
	if err != nil {
		return fmt.Errorf("run cypher: %w", err)
	}
	return nil
}

// RunRead executes a read-only Cypher query and returns the raw records.
func (s *Store) RunRead(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("run read cypher: %w", err)
	}
	records, _ := result.([]*neo4j.Record)
	return records, nil
}

// CountNodesAndRelationships is used by test-db to report the graph's node
// and relationship counts.
func (s *Store) CountNodesAndRelationships(ctx context.Context) (nodes, rels int64, err error) {
	nodeRows, err := s.RunRead(ctx, "MATCH (n) RETURN count(n) AS c", nil)
	if err != nil {
		return 0, 0, err
	}
	if len(nodeRows) > 0 {
		if v, ok := nodeRows[0].Get("c"); ok {
			nodes, _ = v.(int64)
		}
	}

	relRows, err := s.RunRead(ctx, "MATCH ()-[r]->() RETURN count(r) AS c", nil)
	if err != nil {
		return 0, 0, err
	}
	if len(relRows) > 0 {
		if v, ok := relRows[0].Get("c"); ok {
			rels, _ = v.(int64)
		}
	}
	return nodes, rels, nil
}

// ClearGraph deletes every relationship then every node, preserving schema
// (constraints/indexes survive), per spec.md's clear-graph contract
// (original_source/services/cli/cli.py clear_graph_command).
func (s *Store) ClearGraph(ctx context.Context) error {
	if err := s.Run(ctx, "MATCH ()-[r]->() DELETE r", nil); err != nil {
		return fmt.Errorf("delete relationships: %w", err)
	}
	if err := s.Run(ctx, "MATCH (n) DELETE n", nil); err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}
	return nil
}

// TestConnection runs the trivial connectivity probe used by `test-db`.
func (s *Store) TestConnection(ctx context.Context) error {
	_, err := s.RunRead(ctx, "RETURN 1 AS test", nil)
	return err
}
