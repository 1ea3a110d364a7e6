// Package docwords implements the per-document word FST store: for each
// DocumentId, the set of words it contains, so deletion can find every
// posting to prune without re-tokenizing (spec.md §4.5 step 4).
package docwords

import (
	"encoding/binary"

	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

// Store wraps a transaction's docs-words bucket.
type Store struct {
	tx *kv.Tx
}

// New wraps a transaction's docs-words bucket.
func New(tx *kv.Tx) *Store { return &Store{tx: tx} }

func key(doc model.DocumentId) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(doc))
	return buf
}

// Get returns the words stored for doc as a plain slice, or nil if unset.
func (s *Store) Get(doc model.DocumentId) ([][]byte, error) {
	raw := s.tx.Bucket(kv.BucketDocsWords).Get(key(doc))
	if raw == nil {
		return nil, nil
	}
	entries, err := fstutil.Terms(raw)
	if err != nil {
		return nil, err
	}
	words := make([][]byte, len(entries))
	for i, e := range entries {
		words[i] = e.Term
	}
	return words, nil
}

// Put builds and stores the FST of words for doc.
func (s *Store) Put(doc model.DocumentId, words [][]byte) error {
	entries := make([]fstutil.Entry, len(words))
	for i, w := range words {
		entries[i] = fstutil.Entry{Term: w, Value: 0}
	}
	data, err := fstutil.Build(entries)
	if err != nil {
		return err
	}
	return s.put(doc, data)
}

func (s *Store) put(doc model.DocumentId, data []byte) error {
	if err := s.tx.Bucket(kv.BucketDocsWords).Put(key(doc), data); err != nil {
		return internalerrors.NewStorageError("docs-words put", err)
	}
	return nil
}

// Delete removes the stored word FST for doc.
func (s *Store) Delete(doc model.DocumentId) error {
	if err := s.tx.Bucket(kv.BucketDocsWords).Delete(key(doc)); err != nil {
		return internalerrors.NewStorageError("docs-words delete", err)
	}
	return nil
}
