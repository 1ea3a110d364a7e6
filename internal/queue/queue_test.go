package queue

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

func discardLogger() zerolog.Logger {
	return zerolog.Nop()
}

func openTestEnv(t *testing.T) *kv.Env {
	t.Helper()
	env, err := kv.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestEnqueueAssignsSequentialIds(t *testing.T) {
	env := openTestEnv(t)

	var first, second uint64
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		first, err = New(tx).Enqueue(&model.Update{Kind: model.UpdateKindDeletion, CreatedAt: time.Now()})
		return err
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		second, err = New(tx).Enqueue(&model.Update{Kind: model.UpdateKindDeletion, CreatedAt: time.Now()})
		return err
	}))

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
}

func TestEnqueueRecordsEnqueuedResult(t *testing.T) {
	env := openTestEnv(t)

	var id uint64
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		id, err = New(tx).Enqueue(&model.Update{Kind: model.UpdateKindSettings, CreatedAt: time.Now()})
		return err
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		result, err := New(tx).GetResult(id)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, model.UpdateStatusEnqueued, result.Status)
		return nil
	}))
}

func TestNextPendingSkipsProcessedUpdates(t *testing.T) {
	env := openTestEnv(t)

	var firstID, secondID uint64
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		s := New(tx)
		var err error
		firstID, err = s.Enqueue(&model.Update{Kind: model.UpdateKindDeletion, CreatedAt: time.Now()})
		if err != nil {
			return err
		}
		secondID, err = s.Enqueue(&model.Update{Kind: model.UpdateKindDeletion, CreatedAt: time.Now()})
		return err
	}))

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).PutResult(&model.UpdateResult{UpdateID: firstID, Status: model.UpdateStatusProcessed})
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		next, err := New(tx).NextPending(0)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, secondID, next.ID)
		return nil
	}))
}

func TestNextPendingReturnsNilWhenDrained(t *testing.T) {
	env := openTestEnv(t)

	var id uint64
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		id, err = New(tx).Enqueue(&model.Update{Kind: model.UpdateKindDeletion, CreatedAt: time.Now()})
		return err
	}))
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		return New(tx).PutResult(&model.UpdateResult{UpdateID: id, Status: model.UpdateStatusProcessed})
	}))

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		next, err := New(tx).NextPending(0)
		require.NoError(t, err)
		assert.Nil(t, next)
		return nil
	}))
}

func TestApplierDrainsAdditionUpdate(t *testing.T) {
	env := openTestEnv(t)

	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		_, err := New(tx).Enqueue(&model.Update{
			Kind:         model.UpdateKindSettings,
			CreatedAt:    time.Now(),
			SettingsJSON: []byte(`{"searchable_fields":["title"]}`),
		})
		return err
	}))
	var additionID uint64
	require.NoError(t, env.Update(func(tx *kv.Tx) error {
		var err error
		additionID, err = New(tx).Enqueue(&model.Update{
			Kind:      model.UpdateKindAddition,
			CreatedAt: time.Now(),
			Documents: []byte(`[{"id":"a1","title":"red fox"}]`),
		})
		return err
	}))

	applier := NewApplier(env, discardLogger())
	for {
		applied, err := applier.ApplyNext()
		require.NoError(t, err)
		if !applied {
			break
		}
	}

	require.NoError(t, env.View(func(tx *kv.Tx) error {
		result, err := New(tx).GetResult(additionID)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, model.UpdateStatusProcessed, result.Status)
		assert.Equal(t, 1, result.Inserted)
		return nil
	}))
}
