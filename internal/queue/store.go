// Package queue implements the update queue spec.md §4.1 describes: an
// append-only U-space log of Updates, a parallel UpdatesResults space, and
// a single cooperative applier worker that drains the log into the main
// space in order.
package queue

import (
	"encoding/binary"

	"github.com/gcbaptista/searchcore/internal/codec"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

// counterKey is reserved for the next-update-id counter; real update ids
// are allocated starting at 1, so they never collide with it.
var counterKey = codec.EncodeU64(0)

// Store operates against a single transaction's update buckets.
type Store struct {
	tx *kv.Tx
}

// New wraps a transaction's update buckets.
func New(tx *kv.Tx) *Store {
	return &Store{tx: tx}
}

func idKey(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

// Enqueue allocates the next update id, persists upd under it, and
// records an initial "enqueued" result.
func (s *Store) Enqueue(upd *model.Update) (uint64, error) {
	id, err := s.nextID()
	if err != nil {
		return 0, err
	}
	upd.ID = id

	raw, err := codec.EncodeStructured(upd)
	if err != nil {
		return 0, err
	}
	if err := s.tx.Bucket(kv.BucketUpdates).Put(idKey(id), raw); err != nil {
		return 0, internalerrors.NewStorageError("enqueue update", err)
	}

	result := &model.UpdateResult{
		UpdateID:   id,
		Status:     model.UpdateStatusEnqueued,
		EnqueuedAt: upd.CreatedAt,
	}
	if err := s.PutResult(result); err != nil {
		return 0, err
	}

	updatesEnqueuedTotal.WithLabelValues(string(upd.Kind)).Inc()
	queueDepth.Inc()
	return id, nil
}

func (s *Store) nextID() (uint64, error) {
	b := s.tx.Bucket(kv.BucketUpdates)
	raw := b.Get(counterKey)
	next := uint64(1)
	if raw != nil {
		next = codec.DecodeU64(raw) + 1
	}
	if err := b.Put(counterKey, codec.EncodeU64(next)); err != nil {
		return 0, internalerrors.NewStorageError("advance update id counter", err)
	}
	return next, nil
}

// Get loads a persisted update by id.
func (s *Store) Get(id uint64) (*model.Update, error) {
	raw := s.tx.Bucket(kv.BucketUpdates).Get(idKey(id))
	if raw == nil {
		return nil, internalerrors.NewStorageError("get update", internalerrors.ErrUpdateNotFound)
	}
	var upd model.Update
	if err := codec.DecodeStructured(raw, &upd); err != nil {
		return nil, err
	}
	return &upd, nil
}

// GetResult loads the result recorded for id, if any.
func (s *Store) GetResult(id uint64) (*model.UpdateResult, error) {
	raw := s.tx.Bucket(kv.BucketUpdatesResults).Get(idKey(id))
	if raw == nil {
		return nil, nil
	}
	var result model.UpdateResult
	if err := codec.DecodeStructured(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PutResult persists result under its UpdateID.
func (s *Store) PutResult(result *model.UpdateResult) error {
	raw, err := codec.EncodeStructured(result)
	if err != nil {
		return err
	}
	if err := s.tx.Bucket(kv.BucketUpdatesResults).Put(idKey(result.UpdateID), raw); err != nil {
		return internalerrors.NewStorageError("put update result", err)
	}
	return nil
}

// NextPending scans forward from after, returning the lowest-id update
// still in the "enqueued" status, or nil if the queue is drained up to
// the newest entry. Scanning resumes from after on every call so the
// applier never re-walks ids it has already dispatched.
func (s *Store) NextPending(after uint64) (*model.Update, error) {
	c := s.tx.Bucket(kv.BucketUpdates).Cursor()
	start := idKey(after + 1)
	for k, v := c.Seek(start); k != nil; k, v = c.Next() {
		id := binary.BigEndian.Uint64(k)
		result, err := s.GetResult(id)
		if err != nil {
			return nil, err
		}
		if result == nil || result.Status != model.UpdateStatusEnqueued {
			continue
		}
		var upd model.Update
		if err := codec.DecodeStructured(v, &upd); err != nil {
			return nil, err
		}
		return &upd, nil
	}
	return nil, nil
}
