package facets

import (
	"path/filepath"
	"testing"

	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
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

func TestAddGetRemove(t *testing.T) {
	env := openEnv(t)

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		s := New(tx)
		if err := s.Add(1, "red", 10); err != nil {
			return err
		}
		return s.Add(1, "red", 11)
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		ids := New(tx).Get(1, "red")
		assert.Equal(t, []model.DocumentId{10, 11}, ids)
		return nil
	}))

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Remove(1, "red", 10)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Equal(t, []model.DocumentId{11}, New(tx).Get(1, "red"))
		return nil
	}))

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Remove(1, "red", 11)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Nil(t, New(tx).Get(1, "red"))
		return nil
	}))
}

func TestAddIsIdempotent(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		s := New(tx)
		if err := s.Add(2, "blue", 1); err != nil {
			return err
		}
		return s.Add(2, "blue", 1)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Equal(t, []model.DocumentId{1}, New(tx).Get(2, "blue"))
		return nil
	}))
}

func TestValuesScopesByField(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		s := New(tx)
		if err := s.Add(1, "red", 1); err != nil {
			return err
		}
		return s.Add(2, "blue", 2)
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		values := New(tx).Values(1)
		require.Len(t, values, 1)
		for _, ids := range values {
			assert.Equal(t, []model.DocumentId{1}, ids)
		}
		return nil
	}))
}
