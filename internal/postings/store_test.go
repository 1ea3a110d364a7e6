package postings

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

func TestPutGetDelete(t *testing.T) {
	env := openEnv(t)
	records := []model.PostingRecord{{DocumentID: 1, Attribute: 0, WordIndex: 0}}

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put([]byte("hello"), records)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Equal(t, records, New(tx).Get([]byte("hello")))
		return nil
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Delete([]byte("hello"))
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Nil(t, New(tx).Get([]byte("hello")))
		return nil
	}))
}

func TestPutEmptyDeletes(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put([]byte("hello"), []model.PostingRecord{{DocumentID: 1}})
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put([]byte("hello"), nil)
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Nil(t, New(tx).Get([]byte("hello")))
		return nil
	}))
}

func TestMergeUnion(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put([]byte("hello"), []model.PostingRecord{
			{DocumentID: 1, Attribute: 0, WordIndex: 0},
		})
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).MergeUnion([]byte("hello"), []model.PostingRecord{
			{DocumentID: 2, Attribute: 0, WordIndex: 0},
		})
	}))
	require.NoError(t, env.View(func(tx *kv.Tx) error {
		matches := New(tx).Get([]byte("hello"))
		require.Len(t, matches, 2)
		assert.Equal(t, model.DocumentId(1), matches[0].DocumentID)
		assert.Equal(t, model.DocumentId(2), matches[1].DocumentID)
		return nil
	}))
}

func TestPrefixScan(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		s := New(tx)
		if err := s.Put([]byte("car"), []model.PostingRecord{{DocumentID: 1}}); err != nil {
			return err
		}
		if err := s.Put([]byte("cart"), []model.PostingRecord{{DocumentID: 2}}); err != nil {
			return err
		}
		return s.Put([]byte("dog"), []model.PostingRecord{{DocumentID: 3}})
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		results := New(tx).PrefixScan([]byte("car"))
		require.Len(t, results, 2)
		assert.Equal(t, "car", string(results[0].Word))
		assert.Equal(t, "cart", string(results[1].Word))
		return nil
	}))
}

func TestRemoveByDocuments(t *testing.T) {
	env := openEnv(t)
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).Put([]byte("hello"), []model.PostingRecord{
			{DocumentID: 1},
			{DocumentID: 2},
		})
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		remaining := New(tx).RemoveByDocuments([]byte("hello"), map[model.DocumentId]bool{1: true})
		require.Len(t, remaining, 1)
		assert.Equal(t, model.DocumentId(2), remaining[0].DocumentID)
		return nil
	}))
}
