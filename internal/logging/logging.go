// Package logging provides the level-tagged stdlib logger used across the
// pipeline. The teacher's own binaries never pull in a structured logging
// library (no zap/zerolog/logrus anywhere in the retrieval pack), so this
// stays a thin wrapper over the standard library's log package.
package logging

import (
	"log"
	"os"
)

// Logger tags every line with a level prefix and the component name.
type Logger struct {
	name string
	std  *log.Logger
}

// New creates a Logger that writes to stderr, named after component.
func New(component string) *Logger {
	return &Logger{
		name: component,
		std:  log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.std.Printf("INFO  ["+l.name+"] "+format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.std.Printf("WARN  ["+l.name+"] "+format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.std.Printf("ERROR ["+l.name+"] "+format, args...)
}

// Fatalf logs and exits with status 1, mirroring the teacher's use of
// log.Fatal for startup-only, unrecoverable configuration errors (spec §7).
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.std.Fatalf("FATAL ["+l.name+"] "+format, args...)
}
