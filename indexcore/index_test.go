package indexcore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/searchcore/config"
	"github.com/gcbaptista/searchcore/model"
)

func newTestIndex(t *testing.T, settings *config.IndexSettings) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	ix, err := Create(path, settings, "test-index", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestCreateThenOpenReusesPersistedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ix, err := Create(path, &config.IndexSettings{SearchableFields: []string{"title"}}, "", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	reopened, err := Open(path, "", zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	assert.NotEmpty(t, reopened.ID())
}

func TestEnqueueAdditionAppliesOnApplyNext(t *testing.T) {
	ix := newTestIndex(t, &config.IndexSettings{SearchableFields: []string{"title"}})

	doc, err := model.UnmarshalDocumentJSON([]byte(`{"id":"a1","title":"red fox"}`))
	require.NoError(t, err)

	id, err := ix.EnqueueAddition([]*model.Document{doc}, false)
	require.NoError(t, err)

	for {
		applied, err := ix.ApplyNext()
		require.NoError(t, err)
		if !applied {
			break
		}
	}

	result, err := ix.Result(id)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.UpdateStatusProcessed, result.Status)
	assert.Equal(t, 1, result.Inserted)
}

func TestEnqueueDeletionRemovesDocument(t *testing.T) {
	ix := newTestIndex(t, &config.IndexSettings{SearchableFields: []string{"title"}})

	doc, err := model.UnmarshalDocumentJSON([]byte(`{"id":"a1","title":"red fox"}`))
	require.NoError(t, err)
	_, err = ix.EnqueueAddition([]*model.Document{doc}, false)
	require.NoError(t, err)
	drain(t, ix)

	delID, err := ix.EnqueueDeletion([]string{"a1"})
	require.NoError(t, err)
	drain(t, ix)

	result, err := ix.Result(delID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.UpdateStatusProcessed, result.Status)
	assert.Equal(t, 1, result.Deleted)
}

func drain(t *testing.T, ix *Index) {
	t.Helper()
	for {
		applied, err := ix.ApplyNext()
		require.NoError(t, err)
		if !applied {
			return
		}
	}
}
