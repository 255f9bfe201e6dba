// Package folds reads and writes the JSON fold assignment files produced
// by attelo enfold. An assignment maps document ids to fold indices; the
// evaluation loop iterates over the distinct indices.
package folds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrEmpty is returned when a fold file assigns no documents.
var ErrEmpty = errors.New("fold file assigns no documents")

// Assignment maps document ids to fold indices.
type Assignment map[string]int

// Load reads a fold assignment from a JSON file.
func Load(path string) (Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a Assignment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("malformed fold file %s: %w", path, err)
	}
	if len(a) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return a, nil
}

// Save writes the assignment to a JSON file.
func (a Assignment) Save(path string) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshalling folds: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing fold file: %w", err)
	}
	return nil
}

// Distinct returns the distinct fold indices in ascending order.
func (a Assignment) Distinct() []int {
	seen := make(map[int]bool, len(a))
	for _, fold := range a {
		seen[fold] = true
	}
	out := make([]int, 0, len(seen))
	for fold := range seen {
		out = append(out, fold)
	}
	sort.Ints(out)
	return out
}
