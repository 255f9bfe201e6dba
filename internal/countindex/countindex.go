// Package countindex maintains the CSV index of score-count files that
// attelo report consumes. Each row records which counts file holds the
// scores for one (evaluation config, fold) pair. The format is shared
// with attelo, so the header and column order are fixed.
package countindex

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// header is the fixed column order attelo report expects.
var header = []string{"config", "fold", "counts_file"}

// Entry is one row of the index.
type Entry struct {
	Config     string // evaluation config name
	Fold       int
	CountsFile string // path to the per-config counts file
}

// Writer writes index entries to a CSV file. Create with [Create], append
// rows with [Writer.Write], and always [Writer.Close] to flush.
type Writer struct {
	f   *os.File
	csv *csv.Writer
}

// Create opens path for writing and emits the header row. An existing
// file is truncated; partial indices from interrupted runs are not worth
// merging since the rows are cheap to regenerate from the fold loop.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating count index: %w", err)
	}
	w := &Writer{f: f, csv: csv.NewWriter(f)}
	if err := w.csv.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing count index header: %w", err)
	}
	return w, nil
}

// Write appends one entry to the index.
func (w *Writer) Write(e Entry) error {
	row := []string{e.Config, strconv.Itoa(e.Fold), e.CountsFile}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("writing count index row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.f.Close()
		return fmt.Errorf("flushing count index: %w", err)
	}
	return w.f.Close()
}

// Read loads all entries from an index file, validating the header.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading count index %s: %w", path, err)
	}
	if len(rows) == 0 || len(rows[0]) != 3 ||
		rows[0][0] != header[0] || rows[0][1] != header[1] || rows[0][2] != header[2] {
		return nil, fmt.Errorf("count index %s: missing or bad header", path)
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fold, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("count index %s: bad fold %q", path, row[1])
		}
		entries = append(entries, Entry{
			Config:     row[0],
			Fold:       fold,
			CountsFile: row[2],
		})
	}
	return entries, nil
}
