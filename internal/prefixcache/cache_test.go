package prefixcache

import (
	"path/filepath"
	"testing"

	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/postings"
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

func TestRebuildUnionsSharedPrefix(t *testing.T) {
	env := openEnv(t)

	words, err := fstutil.Build([]fstutil.Entry{
		{Term: []byte("car"), Value: 0},
		{Term: []byte("cart"), Value: 0},
		{Term: []byte("dog"), Value: 0},
	})
	require.NoError(t, err)

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		p := postings.New(tx)
		if err := p.Put([]byte("car"), []model.PostingRecord{{DocumentID: 1}}); err != nil {
			return err
		}
		if err := p.Put([]byte("cart"), []model.PostingRecord{{DocumentID: 2}}); err != nil {
			return err
		}
		if err := p.Put([]byte("dog"), []model.PostingRecord{{DocumentID: 3}}); err != nil {
			return err
		}
		return Rebuild(tx, words)
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		cache := New(tx)
		assert.Equal(t, []model.DocumentId{1, 2}, cache.Documents([]byte("car")))
		assert.Equal(t, []model.DocumentId{3}, cache.Documents([]byte("dog")))
		return nil
	}))
}

func TestRebuildClearsPriorState(t *testing.T) {
	env := openEnv(t)

	firstWords, err := fstutil.Build([]fstutil.Entry{{Term: []byte("abc"), Value: 0}})
	require.NoError(t, err)

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		if err := postings.New(tx).Put([]byte("abc"), []model.PostingRecord{{DocumentID: 1}}); err != nil {
			return err
		}
		return Rebuild(tx, firstWords)
	}))

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return Rebuild(tx, nil)
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		assert.Nil(t, New(tx).Documents([]byte("abc")))
		return nil
	}))
}
