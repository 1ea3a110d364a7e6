package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/gcbaptista/searchcore/config"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/pipeline"
	"github.com/gcbaptista/searchcore/model"
)

// applyMaxElapsed bounds how long the applier retries one update against
// transient storage errors before giving up and marking it failed.
const applyMaxElapsed = 30 * time.Second

// Applier drains the update log into the main space, one update at a time
// and in id order, so every write the log records lands transactionally.
// A single cooperative worker, not a pool of slots, since updates must
// apply strictly in sequence.
type Applier struct {
	env    *kv.Env
	log    zerolog.Logger
	notify chan struct{}
	stop   chan struct{}
	done   chan struct{}
	cursor uint64
}

// NewApplier builds an Applier over env. log should already carry an
// "index" field identifying the owning index.
func NewApplier(env *kv.Env, log zerolog.Logger) *Applier {
	return &Applier{
		env:    env,
		log:    log,
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start runs the drain loop in a background goroutine until Stop is
// called. It wakes on every Nudge and also polls periodically, so an
// update enqueued by a process that crashed before nudging still drains.
func (a *Applier) Start() {
	go a.run()
}

// Stop signals the drain loop to exit and waits for it to finish any
// update already in flight.
func (a *Applier) Stop() {
	close(a.stop)
	<-a.done
}

// Nudge wakes the drain loop after a new update is enqueued. Best-effort:
// a full channel means a wakeup is already pending, so the send is
// dropped rather than blocking the enqueuing caller.
func (a *Applier) Nudge() {
	select {
	case a.notify <- struct{}{}:
	default:
	}
}

func (a *Applier) run() {
	defer close(a.done)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		for {
			applied, err := a.ApplyNext()
			if err != nil {
				a.log.Error().Err(err).Msg("scan for pending update failed")
				break
			}
			if !applied {
				break
			}
		}
		select {
		case <-a.notify:
		case <-ticker.C:
		case <-a.stop:
			return
		}
	}
}

// ApplyNext applies at most one pending update and reports whether one
// was found, so callers (the drain loop, or a CLI driving the queue
// manually) can step the applier one update at a time.
func (a *Applier) ApplyNext() (bool, error) {
	var upd *model.Update
	if err := a.env.View(func(tx *kv.Tx) error {
		var err error
		upd, err = New(tx).NextPending(a.cursor)
		return err
	}); err != nil {
		return false, err
	}
	if upd == nil {
		return false, nil
	}

	queueDepth.Dec()
	a.cursor = upd.ID
	a.process(upd)
	return true, nil
}

func (a *Applier) process(upd *model.Update) {
	start := time.Now()
	now := start
	result := &model.UpdateResult{
		UpdateID:  upd.ID,
		Status:    model.UpdateStatusProcessing,
		StartedAt: &now,
	}
	a.markResult(result)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = applyMaxElapsed

	var inserted, deleted int
	err := backoff.Retry(func() error {
		var applyErr error
		inserted, deleted, applyErr = a.apply(upd)
		if applyErr != nil && isRetryableStorageError(applyErr) {
			return applyErr
		}
		if applyErr != nil {
			return backoff.Permanent(applyErr)
		}
		return nil
	}, bo)

	completedAt := time.Now()
	result.CompletedAt = &completedAt
	result.Inserted = inserted
	result.Deleted = deleted
	outcome := "success"
	if err != nil {
		result.Status = model.UpdateStatusFailed
		result.Error = err.Error()
		outcome = "failure"
		a.log.Error().Err(err).Uint64("update_id", upd.ID).Str("kind", string(upd.Kind)).Msg("update failed")
	} else {
		result.Status = model.UpdateStatusProcessed
		a.log.Info().Uint64("update_id", upd.ID).Str("kind", string(upd.Kind)).Dur("elapsed", time.Since(start)).Msg("update applied")
	}
	a.markResult(result)

	applyDuration.WithLabelValues(string(upd.Kind)).Observe(time.Since(start).Seconds())
	updatesProcessedTotal.WithLabelValues(string(upd.Kind), outcome).Inc()
}

func (a *Applier) markResult(result *model.UpdateResult) {
	if err := a.env.Update(func(tx *kv.Tx) error {
		return New(tx).PutResult(result)
	}); err != nil {
		a.log.Error().Err(err).Uint64("update_id", result.UpdateID).Msg("failed to persist update result")
	}
}

// apply dispatches upd to the matching pipeline operation inside one
// transaction, so it either fully lands or fully rolls back.
func (a *Applier) apply(upd *model.Update) (inserted, deleted int, err error) {
	err = a.env.Update(func(tx *kv.Tx) error {
		switch upd.Kind {
		case model.UpdateKindAddition, model.UpdateKindPartialAddition:
			docs, decodeErr := decodeDocuments(upd.Documents)
			if decodeErr != nil {
				return decodeErr
			}
			res, applyErr := pipeline.ApplyAddition(tx, docs, upd.Kind == model.UpdateKindPartialAddition)
			if applyErr != nil {
				return applyErr
			}
			inserted = res.Inserted
			return nil

		case model.UpdateKindDeletion:
			res, applyErr := pipeline.ApplyDeletion(tx, upd.UserIDs)
			if applyErr != nil {
				return applyErr
			}
			deleted = res.ActuallyDeleted
			return nil

		case model.UpdateKindSettings:
			var settings config.IndexSettings
			if jsonErr := json.Unmarshal(upd.SettingsJSON, &settings); jsonErr != nil {
				return internalerrors.NewSerializationError("decode settings update", jsonErr)
			}
			return pipeline.ApplySettings(tx, &settings)

		case model.UpdateKindClearAll:
			return pipeline.ClearAll(tx)

		default:
			return fmt.Errorf("unknown update kind %q", upd.Kind)
		}
	})
	return inserted, deleted, err
}

func decodeDocuments(raw []byte) ([]*model.Document, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, internalerrors.NewSerializationError("decode update documents", err)
	}
	docs := make([]*model.Document, 0, len(items))
	for _, item := range items {
		doc, err := model.UnmarshalDocumentJSON(item)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// isRetryableStorageError reports whether err stems from the KV engine
// itself rather than from invalid input; only those are worth retrying,
// since a StorageError can reflect a transient bbolt lock contention.
func isRetryableStorageError(err error) bool {
	var storageErr *internalerrors.StorageError
	return errors.As(err, &storageErr)
}
