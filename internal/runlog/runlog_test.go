package runlog

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() { dbPathFunc = origDBPath })
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetExperiment("/data/2026-03-14T150926")

		Log(Entry{
			Source:  "evaluate:learn",
			Action:  "learn",
			Dataset: "corpus",
			Fold:    3,
			Config:  "bayes-last",
			Success: true,
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM steps").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		var source, action, dataset, config string
		var fold, success int
		err = db.QueryRow("SELECT source, action, dataset, fold, config, success FROM steps WHERE id = 1").
			Scan(&source, &action, &dataset, &fold, &config, &success)
		require.NoError(t, err)
		assert.Equal(t, "evaluate:learn", source)
		assert.Equal(t, "learn", action)
		assert.Equal(t, "corpus", dataset)
		assert.Equal(t, 3, fold)
		assert.Equal(t, "bayes-last", config)
		assert.Equal(t, 1, success)
	})

	t.Run("log error entry", func(t *testing.T) {
		Close()

		err := Open()
		require.NoError(t, err)
		defer Close()

		Log(Entry{
			Source:  "evaluate:decode",
			Action:  "decode",
			Dataset: "corpus",
			Fold:    0,
			Success: false,
			Error:   "attelo decode: exit status 1",
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg string
		err = db.QueryRow("SELECT success, error FROM steps ORDER BY id DESC LIMIT 1").
			Scan(&success, &errMsg)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, "attelo decode: exit status 1", errMsg)
	})

	t.Run("log without logger is noop", func(t *testing.T) {
		Close()

		// Should not panic
		Log(Entry{Source: "evaluate:learn", Action: "learn", Success: true})
	})

	t.Run("open is idempotent", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)

		err = Open() // second call should succeed
		require.NoError(t, err)

		Close()
	})
}

func TestBuilder(t *testing.T) {
	useTempDB(t)

	t.Run("fluent API success", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetExperiment("/data/2026-03-14T150926")

		Event("evaluate:decode", "decode").
			Dataset("corpus").
			Fold(2).
			Config("bayes-mst").
			Write(nil)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var source, dataset, config string
		var fold, success int
		err = db.QueryRow("SELECT source, dataset, fold, config, success FROM steps ORDER BY id DESC LIMIT 1").
			Scan(&source, &dataset, &fold, &config, &success)
		require.NoError(t, err)
		assert.Equal(t, "evaluate:decode", source)
		assert.Equal(t, "corpus", dataset)
		assert.Equal(t, 2, fold)
		assert.Equal(t, "bayes-mst", config)
		assert.Equal(t, 1, success)
	})

	t.Run("fold defaults to NULL", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		Event("report:report", "report").Dataset("corpus").Write(nil)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var fold sql.NullInt64
		err = db.QueryRow("SELECT fold FROM steps ORDER BY id DESC LIMIT 1").Scan(&fold)
		require.NoError(t, err)
		assert.False(t, fold.Valid)
	})

	t.Run("fluent API with error and detail", func(t *testing.T) {
		Close()
		err := Open()
		require.NoError(t, err)
		defer Close()

		testErr := errors.New("attelo learn: exit status 2")
		Event("evaluate:learn", "learn").
			Dataset("corpus").
			Fold(1).
			Detail("learner", "bayes").
			Write(testErr)

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg, detail string
		err = db.QueryRow("SELECT success, error, detail FROM steps ORDER BY id DESC LIMIT 1").
			Scan(&success, &errMsg, &detail)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, testErr.Error(), errMsg)
		assert.Contains(t, detail, "bayes")
	})
}

func TestHash(t *testing.T) {
	h1 := hash("/data/2026-03-14T150926")
	h2 := hash("/data/2026-03-14T150926")
	h3 := hash("/data/2026-03-15T090000")

	assert.Equal(t, h1, h2, "same input should produce same hash")
	assert.NotEqual(t, h1, h3, "different input should produce different hash")
	assert.Len(t, h1, 16, "BLAKE2b-64 should produce 16 hex chars")
}

func TestDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expected := filepath.Join(home, ".irit-rst-dt", "log", "harness-log.db")

	origDBPath := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = origDBPath }()

	assert.Equal(t, expected, DBPath())
}
