package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("config")
	assert.Contains(t, out, "loaded from")
	assert.Contains(t, out, "corpora/corpus")
	assert.Contains(t, out, "attelo_config: attelo.ini")
}

func TestConfig_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(env.dir, "irit-rst-dt.yaml"), []byte("corpora: []\n"), 0644))

	out, err := env.runErr("config")
	assert.Error(t, err)
	assert.Contains(t, out, "invalid config file")
}

func TestInvalidOutputFormat(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("version", "-o", "xml")
	assert.Error(t, err)
	assert.Contains(t, out, "invalid output format")
}
