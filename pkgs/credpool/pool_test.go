package credpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDropsBlankEntries(t *testing.T) {
	pool, err := New([]string{" key-1 ", "", "key-2", "   "})
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Size())
	assert.Equal(t, Credential("key-1"), pool.First())
}

func TestNewEmptyIsAnError(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = New([]string{"", "  "})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(ENV_API_KEYS, "k1,k2, k3")
	pool, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, pool.Size())

	t.Setenv(ENV_API_KEYS, "")
	_, err = FromEnv()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestWorkerCount(t *testing.T) {
	pool, err := New([]string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, 0, pool.WorkerCount(0))
	assert.Equal(t, 2, pool.WorkerCount(2))
	assert.Equal(t, 3, pool.WorkerCount(3))
	assert.Equal(t, 3, pool.WorkerCount(50))
}

func TestAssignRoundRobin(t *testing.T) {
	pool, err := New([]string{"a", "b"})
	require.NoError(t, err)

	assigned := pool.Assign(2)
	assert.Equal(t, []Credential{"a", "b"}, assigned)

	// n never exceeds the pool size in practice, but wrap-around is defined.
	assert.Equal(t, []Credential{"a", "b", "a"}, pool.Assign(3))
}

func TestMasked(t *testing.T) {
	assert.Equal(t, "...6789", Credential("sk-123456789").Masked())
	assert.Equal(t, "...ab", Credential("ab").Masked())
}
