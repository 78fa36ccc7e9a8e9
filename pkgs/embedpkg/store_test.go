package embedpkg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

////////////////////////////////////////////////////////////////////////////////

func fileStore(t *testing.T, dimension int) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	return NewStore(dimension, NewFileBackend(path))
}

////////////////////////////////////////////////////////////////////////////////

func TestReshape(t *testing.T) {
	// Exact length passes through untouched.
	v := []float64{1, 2, 3}
	assert.Equal(t, v, Reshape(v, 3))

	// Longer vectors are truncated.
	assert.Equal(t, []float64{1, 2}, Reshape([]float64{1, 2, 3}, 2))

	// Shorter vectors are zero-padded on the right.
	assert.Equal(t, []float64{1, 2, 0, 0}, Reshape([]float64{1, 2}, 4))
}

func TestGetOrComputeCachesResult(t *testing.T) {
	store := fileStore(t, 3)

	calls := 0
	embed := func(_ context.Context, _ string) ([]float64, bool) {
		calls++
		return []float64{1, 2, 3}, true
	}

	first, ok := store.GetOrCompute(context.Background(), "hello", embed)
	require.True(t, ok)
	second, ok := store.GetOrCompute(context.Background(), "hello", embed)
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "remote embed must run at most once per text")
	assert.Equal(t, 1, store.Len())
}

func TestGetOrComputeReshapesBeforeStoring(t *testing.T) {
	store := fileStore(t, 4)

	vector, ok := store.GetOrCompute(context.Background(), "short", func(_ context.Context, _ string) ([]float64, bool) {
		return []float64{9, 9}, true
	})
	require.True(t, ok)
	assert.Equal(t, []float64{9, 9, 0, 0}, vector)

	cached, ok := store.Lookup("short")
	require.True(t, ok)
	assert.Len(t, cached, 4)
}

func TestGetOrComputeDegradesToZeroVector(t *testing.T) {
	store := fileStore(t, 3)

	vector, ok := store.GetOrCompute(context.Background(), "fail", func(_ context.Context, _ string) ([]float64, bool) {
		return nil, false
	})
	assert.False(t, ok)
	assert.Equal(t, []float64{0, 0, 0}, vector)

	// Failures are not cached: the next call retries the remote.
	_, cached := store.Lookup("fail")
	assert.False(t, cached)
}

func TestLookupRejectsWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	backend := NewFileBackend(path)
	require.NoError(t, backend.Save(context.Background(), "stale", nil, map[string][]float64{
		"stale": {1, 2}, // persisted under an older dimension
	}))

	store := NewStore(3, backend)
	_, ok := store.Lookup("stale")
	assert.False(t, ok)
	assert.Contains(t, store.Misses([]string{"stale"}), "stale")
}

func TestLookupReturnsACopy(t *testing.T) {
	store := fileStore(t, 2)
	_, ok := store.GetOrCompute(context.Background(), "x", func(_ context.Context, _ string) ([]float64, bool) {
		return []float64{1, 2}, true
	})
	require.True(t, ok)

	v1, _ := store.Lookup("x")
	v1[0] = 99
	v2, _ := store.Lookup("x")
	assert.Equal(t, 1.0, v2[0])
}

func TestMisses(t *testing.T) {
	store := fileStore(t, 2)
	_, ok := store.GetOrCompute(context.Background(), "cached", func(_ context.Context, _ string) ([]float64, bool) {
		return []float64{1, 2}, true
	})
	require.True(t, ok)

	misses := store.Misses([]string{"a", "cached", "b", "a", "b"})
	assert.Equal(t, []string{"a", "b"}, misses)
}

func TestClear(t *testing.T) {
	store := fileStore(t, 2)
	_, ok := store.GetOrCompute(context.Background(), "x", func(_ context.Context, _ string) ([]float64, bool) {
		return []float64{1, 2}, true
	})
	require.True(t, ok)

	require.NoError(t, store.Clear(context.Background()))
	assert.Equal(t, 0, store.Len())
}

////////////////////////////////////////////////////////////////////////////////

func TestFileBackendRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	backend := NewFileBackend(path)

	// Missing file is an empty cache, not an error.
	entries, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	snapshot := map[string][]float64{
		"a": {1, 2, 3},
		"b": {4, 5, 6},
	}
	require.NoError(t, backend.Save(context.Background(), "a", snapshot["a"], snapshot))

	loaded, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)

	require.NoError(t, backend.Clear(context.Background()))
	entries, err = backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreSurvivesLoadFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	store := NewStore(2, NewFileBackend(path))
	assert.Equal(t, 0, store.Len())
}
