// Package runlog provides centralised best-effort logging of harness
// steps. Entries are stored in ~/.irit-rst-dt/log/harness-log.db and track
// every gather, enfold, learn, decode and report step across experiments,
// which makes it possible to reconstruct how long a run took and where it
// failed even after the scratch dirs are cleaned away.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	runlog.Event("evaluate:learn", "learn").
//		Dataset(dataset).
//		Fold(fold).
//		Config(econf.Name).
//		Write(err)
//
// The source parameter follows the format "{command}:{step}", e.g.
// "evaluate:decode", "gather:extract", "report:report".
package runlog

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single run log entry.
type Entry struct {
	Source  string // e.g. "evaluate:learn", "gather:extract"
	Action  string // verb: enfold, learn, decode, report, extract
	Dataset string // corpus the step ran on
	Fold    int    // fold index, -1 when not fold-scoped
	Config  string // evaluation config name, if any

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string         // error message if failed
	Detail  map[string]any // additional step-specific data
}

// Builder constructs a log entry using a fluent API. Create with [Event],
// chain methods to set fields, then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for a harness step.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Fold:   -1,
			Start:  time.Now().Unix(),
		},
	}
}

// Dataset sets the corpus this step ran on.
func (b *Builder) Dataset(dataset string) *Builder {
	b.entry.Dataset = dataset
	return b
}

// Fold sets the fold index this step ran within.
func (b *Builder) Fold(fold int) *Builder {
	b.entry.Fold = fold
	return b
}

// Config sets the evaluation config name (learner/decoder combination).
func (b *Builder) Config(name string) *Builder {
	b.entry.Config = name
	return b
}

// Detail adds a key-value pair to the entry's detail map. Can be called
// multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
//
//	err := runner.Run(ctx, args)
//	runlog.Event("evaluate:decode", "decode").Dataset(d).Fold(n).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort
// logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetExperiment sets the experiment identifier for subsequent entries.
// The dir should be the absolute path of the data snapshot in use.
func SetExperiment(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.experiment = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
