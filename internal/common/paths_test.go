package common

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	p, err := CleanPath("data/./raw/../raw/batch")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "batch", filepath.Base(p))

	_, err = CleanPath("  ")
	assert.Error(t, err)
}

func TestJoinPath(t *testing.T) {
	base := t.TempDir()

	p, err := JoinPath(base, "dbt", "seeds")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "dbt", "seeds"), p)

	_, err = JoinPath(base, "..", "elsewhere")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}

func TestValidatePathSiblingPrefix(t *testing.T) {
	base := t.TempDir()

	_, err := ValidatePath(base+"-other/file.csv", base)
	assert.Error(t, err)
}

func TestResolveUnder(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "landing")

	p, err := ResolveUnder(base, abs)
	require.NoError(t, err)
	assert.Equal(t, abs, p)

	p, err = ResolveUnder(base, "data/raw/batch")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data", "raw", "batch"), p)
}
