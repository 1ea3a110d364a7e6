package docstore

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

func TestFieldsPutGet(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return NewFields(tx).Put(1, 2, []byte(`"hello"`))
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Equal(t, []byte(`"hello"`), NewFields(tx).Get(1, 2))
		assert.Nil(t, NewFields(tx).Get(1, 3))
		return nil
	}))
}

func TestFieldsOfScopesByDocument(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		f := NewFields(tx)
		if err := f.Put(1, 0, []byte(`"a"`)); err != nil {
			return err
		}
		if err := f.Put(1, 1, []byte(`"b"`)); err != nil {
			return err
		}
		return f.Put(2, 0, []byte(`"other-doc"`))
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		fields, err := NewFields(tx).FieldsOf(1)
		require.NoError(t, err)
		require.Len(t, fields, 2)
		assert.Equal(t, []byte(`"a"`), fields[0])
		assert.Equal(t, []byte(`"b"`), fields[1])
		return nil
	}))
}

func TestFieldsDeleteAllReportsPresence(t *testing.T) {
	env := openEnv(t)

	var hadFields bool
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return NewFields(tx).Put(5, 0, []byte(`1`))
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		hadFields, err = NewFields(tx).DeleteAll(5)
		return err
	}))
	assert.True(t, hadFields)

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		hadFields, err = NewFields(tx).DeleteAll(5)
		return err
	}))
	assert.False(t, hadFields)
}

func TestCountsPutGetDelete(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return NewCounts(tx).Put(1, 0, 3)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Equal(t, uint32(3), NewCounts(tx).Get(1, 0))
		assert.Equal(t, uint32(0), NewCounts(tx).Get(1, 1))
		return nil
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return NewCounts(tx).DeleteAll(1)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Equal(t, uint32(0), NewCounts(tx).Get(1, 0))
		return nil
	}))
}

func TestCountsFieldsOfScopesByDocument(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		c := NewCounts(tx)
		if err := c.Put(1, 0, 2); err != nil {
			return err
		}
		if err := c.Put(1, 3, 5); err != nil {
			return err
		}
		return c.Put(2, 1, 1)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.ElementsMatch(t, []model.FieldId{0, 3}, NewCounts(tx).FieldsOf(1))
		assert.ElementsMatch(t, []model.FieldId{1}, NewCounts(tx).FieldsOf(2))
		assert.Empty(t, NewCounts(tx).FieldsOf(99))
		return nil
	}))
}
