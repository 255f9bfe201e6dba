// runlog_storage.go implements SQLite-based persistent step logging.
//
// Separated from runlog.go to isolate database concerns: runlog.go holds
// the fluent entry-building API, this file handles persistence. The
// experiment field stores a hash of the data snapshot path so runs can be
// grouped without recording where on disk a researcher keeps their
// corpora.
//
// Errors during logging are reported to stderr but otherwise ignored: a
// decode step should not fail because the log database is unavailable.
package runlog

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes run log entries to a SQLite database.
type Logger struct {
	db         *sql.DB
	experiment string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO steps (start, end, experiment, source, action, dataset,
		                   fold, config, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.experiment, e.Source, e.Action,
		nilIfEmpty(e.Dataset), nilIfNegative(e.Fold), nilIfEmpty(e.Config),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "irit-rst-dt: run log write failed: %v\n", err)
	}
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory if home cannot be
		// determined, so logging still works in containers etc.
		return filepath.Join(".irit-rst-dt", "log", "harness-log.db")
	}
	return filepath.Join(home, ".irit-rst-dt", "log", "harness-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the run log database.
func DBPath() string {
	return dbPath()
}

// hash creates an experiment identifier from the snapshot path, enabling
// cross-run queries while keeping local paths out of the log.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		// Should never happen with nil key, but don't silently ignore
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the steps table if it doesn't exist.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS steps (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			start      INTEGER NOT NULL,
			end        INTEGER NOT NULL,
			experiment TEXT NOT NULL,
			source     TEXT NOT NULL,
			action     TEXT NOT NULL,
			dataset    TEXT,
			fold       INTEGER,
			config     TEXT,
			success    INTEGER NOT NULL,
			error      TEXT,
			detail     TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_steps_start ON steps(start);
		CREATE INDEX IF NOT EXISTS idx_steps_experiment ON steps(experiment);
		CREATE INDEX IF NOT EXISTS idx_steps_source ON steps(source);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings, reducing NULL checks in queries.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nilIfNegative returns nil for negative values, indicating "not
// fold-scoped" in queries.
func nilIfNegative(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}
