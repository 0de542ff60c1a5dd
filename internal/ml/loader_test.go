package ml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron/pkg/errors"
)

func writeBundle(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const linearBundle = `{
	"kind": "linear",
	"model_name": "ridge_v1",
	"market_code": "rec_yds",
	"lookback": 5,
	"feature_cols": ["mean", "stddev", "weighted_mean", "trend"],
	"linear": {"coef": [0.8, -0.1, 0.3, 5.0], "intercept": 10.0}
}`

func TestLoader_LoadBundle(t *testing.T) {
	dir := t.TempDir()
	path := writeBundle(t, dir, "ridge_v1_rec_yds_lb5.model.json", linearBundle)

	loader := NewLoader()
	artifact, err := loader.Load(path)
	require.NoError(t, err)

	pred, err := artifact.Predict([]float64{62.4, 11.2, 65.0, 0.08})
	require.NoError(t, err)
	assert.Greater(t, pred, 0.0)
}

func TestLoader_MissingArtifact(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("/models/does_not_exist.model.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrArtifactMissing))
}

func TestLoader_DirectoryIsMissing(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrArtifactMissing))
}

func TestLoader_CachesByPathAndMtime(t *testing.T) {
	dir := t.TempDir()
	path := writeBundle(t, dir, "ridge_v1.model.json", linearBundle)

	loader := NewLoader()

	first, err := loader.Load(path)
	require.NoError(t, err)
	second, err := loader.Load(path)
	require.NoError(t, err)

	// Unchanged file: same shared instance
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.Size())
}

func TestLoader_ReloadsOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := writeBundle(t, dir, "ridge_v1.model.json", linearBundle)

	loader := NewLoader()
	first, err := loader.Load(path)
	require.NoError(t, err)

	// Rewritten artifact gets a new mtime and must be reloaded
	newer := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, newer, newer))

	second, err := loader.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	// Stale entry for the old mtime is evicted, not hoarded
	assert.Equal(t, 1, loader.Size())
}

func TestLoader_CorruptBundle(t *testing.T) {
	dir := t.TempDir()
	path := writeBundle(t, dir, "broken.model.json", "{not json")

	loader := NewLoader()
	_, err := loader.Load(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrArtifactMissing))
}

func TestLoader_UnsupportedKind(t *testing.T) {
	dir := t.TempDir()
	path := writeBundle(t, dir, "mystery.model.json", `{"kind": "svm"}`)

	loader := NewLoader()
	_, err := loader.Load(path)
	assert.Error(t, err)
}
