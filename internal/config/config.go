// Package config loads environment configuration the way cmd/pipeline did
// in the teacher repo: a best-effort .env load via godotenv followed by
// plain os.Getenv reads with defaults, plus an optional Hjson run profile
// for operator-tunable knobs that don't belong in environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	hjson "github.com/hjson/hjson-go/v4"
)

// Config holds every environment-derived setting the pipeline needs.
type Config struct {
	DataDir      string
	Neo4jURI     string
	Neo4jUser    string
	Neo4jPass    string
	UserAgent    string
	MaxWorkers   int
	RateLimitRPS float64
}

// Load reads .env (if present; a load error is ignored) then populates a
// Config from the environment, applying the same defaults the Python
// source used (ORION_DATA_DIR defaulting to "./data").
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:      getenv("ORION_DATA_DIR", "./data"),
		Neo4jURI:     getenv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:    getenv("NEO4J_USER", "neo4j"),
		Neo4jPass:    getenv("NEO4J_PASSWORD", ""),
		UserAgent:    getenv("SEC_USER_AGENT", "OrionGraph/1.0 (contact@example.com)"),
		MaxWorkers:   getenvInt("ORION_MAX_WORKERS", 5),
		RateLimitRPS: getenvFloat("ORION_RATE_LIMIT_RPS", 10.0),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return fallback
}

// MetadataDir is where the index fetcher's cached .idx files and fpi list
// live: <data-dir>/metadata.
func (c *Config) MetadataDir() string {
	return filepath.Join(c.DataDir, "metadata")
}

// FilingsDir is where parsed-from filings live: <data-dir>/filings.
func (c *Config) FilingsDir() string {
	return filepath.Join(c.DataDir, "filings")
}

// QueueDir is the root of the four work-queue subdirectories.
func (c *Config) QueueDir() string {
	return filepath.Join(c.DataDir, "queue")
}

// Profile is an operator-maintained run profile, parsed from a
// human-editable Hjson file (comments and unquoted keys allowed) rather
// than strict JSON, since it's meant to be hand-edited between runs.
type Profile struct {
	QueueDir       string  `json:"queue_dir"`
	DefaultWorkers int     `json:"default_workers"`
	RateLimitRPS   float64 `json:"rate_limit_rps"`
}

// LoadProfile reads an Hjson run profile from path. A missing file is not
// an error; callers should fall back to Config defaults.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var p Profile
	if err := hjson.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse hjson profile %s: %w", path, err)
	}
	return &p, nil
}
