package docwords

import (
	"path/filepath"
	"testing"

	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openEnv(t *testing.T) *kv.Env {
	t.Helper()
	env, err := kv.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestPutGetRoundTrip(t *testing.T) {
	env := openEnv(t)
	words := [][]byte{[]byte("hello"), []byte("world")}

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put(1, words)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		got, err := New(tx).Get(1)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "hello", string(got[0]))
		assert.Equal(t, "world", string(got[1]))
		return nil
	}))
}

func TestGetMissingReturnsNil(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		got, err := New(tx).Get(99)
		require.NoError(t, err)
		assert.Nil(t, got)
		return nil
	}))
}

func TestDelete(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put(1, [][]byte{[]byte("a")})
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Delete(1)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		got, err := New(tx).Get(1)
		require.NoError(t, err)
		assert.Nil(t, got)
		return nil
	}))
}
