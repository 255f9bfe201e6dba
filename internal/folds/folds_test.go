package folds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDistinct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folds-corpus.json")
	content := `{"wsj_0601": 2, "wsj_0602": 0, "wsj_0603": 2, "wsj_0604": 1}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	a, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, a["wsj_0601"])
	assert.Equal(t, []int{0, 1, 2}, a.Distinct())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folds-corpus.json")
	a := Assignment{"doc1": 0, "doc2": 1}
	require.NoError(t, a.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folds-corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folds-corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"doc":`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "malformed fold file")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
