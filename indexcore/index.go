// Package indexcore is the top-level entry point the rest of this module
// exists to support: one Index per bbolt file, bundling the environment,
// the update queue, and the applier draining it (grounded on
// internal/engine/instance.go's IndexInstance, which bundled an
// InvertedIndex, a DocumentStore, and the services reading/writing them).
package indexcore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gcbaptista/searchcore/config"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/logging"
	"github.com/gcbaptista/searchcore/internal/mainstore"
	"github.com/gcbaptista/searchcore/internal/pipeline"
	"github.com/gcbaptista/searchcore/internal/queue"
	"github.com/gcbaptista/searchcore/model"
)

// Index owns one bbolt environment and the update queue that serializes
// every write against it.
type Index struct {
	id      string
	env     *kv.Env
	log     zerolog.Logger
	applier *queue.Applier
	started bool
}

// Create opens a fresh index at path, eagerly persists an empty schema
// (spec.md §3: a schema exists from index creation; its primary key is
// inferred from the first added document, since settings carry no primary
// key) and applies settings. id is an opaque identifier stamped into every
// log line this Index emits; pass "" to have one generated.
func Create(path string, settings *config.IndexSettings, id string, log zerolog.Logger) (*Index, error) {
	env, err := kv.Open(path)
	if err != nil {
		return nil, err
	}

	err = env.Update(func(tx *kv.Tx) error {
		main := mainstore.New(tx)
		if err := main.PutSchema(model.NewSchema()); err != nil {
			return err
		}
		if settings == nil {
			settings = &config.IndexSettings{}
		}
		return pipeline.ApplySettings(tx, settings)
	})
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	return open(env, id, log), nil
}

// Open reopens an existing index at path. It fails if no schema was ever
// persisted, since that can only happen for a path Create never touched.
func Open(path string, id string, log zerolog.Logger) (*Index, error) {
	env, err := kv.Open(path)
	if err != nil {
		return nil, err
	}

	err = env.View(func(tx *kv.Tx) error {
		_, err := mainstore.New(tx).GetSchema()
		return err
	})
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	return open(env, id, log), nil
}

func open(env *kv.Env, id string, log zerolog.Logger) *Index {
	if id == "" {
		id = uuid.NewString()
	}
	indexLog := logging.WithIndex(log, id)
	return &Index{
		id:      id,
		env:     env,
		log:     indexLog,
		applier: queue.NewApplier(env, indexLog),
	}
}

// StartApplier launches the background drain loop, so every enqueued
// update is applied without the caller driving ApplyNext itself. Do not
// mix this with direct ApplyNext calls on the same Index: both would
// advance the same applier cursor without synchronizing against each
// other.
func (ix *Index) StartApplier() {
	ix.started = true
	ix.applier.Start()
}

// ID returns the identifier this Index was opened or created with.
func (ix *Index) ID() string { return ix.id }

// Close stops the background applier and closes the underlying
// environment. Any update still enqueued is left on disk for the next
// Open to resume draining.
func (ix *Index) Close() error {
	if ix.started {
		ix.applier.Stop()
	}
	return ix.env.Close()
}

// EnqueueAddition appends an addition (or, if partial, a partial-addition)
// update to the log and returns its update id. partial selects
// apply_documents_partial_addition vs. apply_documents_addition once the
// applier reaches it.
func (ix *Index) EnqueueAddition(docs []*model.Document, partial bool) (uint64, error) {
	raw, err := marshalDocuments(docs)
	if err != nil {
		return 0, err
	}
	kind := model.UpdateKindAddition
	if partial {
		kind = model.UpdateKindPartialAddition
	}
	return ix.enqueue(&model.Update{Kind: kind, Documents: raw})
}

// EnqueueDeletion appends a deletion update naming userIDs.
func (ix *Index) EnqueueDeletion(userIDs []string) (uint64, error) {
	return ix.enqueue(&model.Update{Kind: model.UpdateKindDeletion, UserIDs: userIDs})
}

// EnqueueSettings appends a settings update.
func (ix *Index) EnqueueSettings(settings *config.IndexSettings) (uint64, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return 0, internalerrors.NewSerializationError("encode settings update", err)
	}
	return ix.enqueue(&model.Update{Kind: model.UpdateKindSettings, SettingsJSON: raw})
}

// EnqueueClearAll appends a clear_all update.
func (ix *Index) EnqueueClearAll() (uint64, error) {
	return ix.enqueue(&model.Update{Kind: model.UpdateKindClearAll})
}

func (ix *Index) enqueue(upd *model.Update) (uint64, error) {
	upd.CreatedAt = time.Now()
	var id uint64
	err := ix.env.Update(func(tx *kv.Tx) error {
		var err error
		id, err = queue.New(tx).Enqueue(upd)
		return err
	})
	if err != nil {
		return 0, err
	}
	ix.applier.Nudge()
	return id, nil
}

// ApplyNext drives the applier forward by at most one update, for callers
// (tests, a single-shot CLI invocation) that want synchronous control
// instead of relying on the background drain loop.
func (ix *Index) ApplyNext() (bool, error) {
	return ix.applier.ApplyNext()
}

// Result returns the recorded outcome of updateID (status "enqueued" until
// the applier reaches it), or nil if no update with that id was enqueued.
func (ix *Index) Result(updateID uint64) (*model.UpdateResult, error) {
	var result *model.UpdateResult
	err := ix.env.View(func(tx *kv.Tx) error {
		var err error
		result, err = queue.New(tx).GetResult(updateID)
		return err
	})
	return result, err
}

func marshalDocuments(docs []*model.Document) ([]byte, error) {
	raw := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode document %d: %w", i, err)
		}
		raw[i] = b
	}
	return json.Marshal(raw)
}
