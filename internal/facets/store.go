// Package facets implements the facet map spec.md's glossary defines:
// (FieldId, value-hash) -> sorted set of DocumentId, used for filterable
// faceted search.
package facets

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/gcbaptista/searchcore/internal/codec"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

// HashValue hashes a facet value string to the u64 used as the second half
// of the facet key. FNV-1a is unseeded, so a value hashes to the same key in
// every process and facet entries written before a restart stay reachable
// by Get and Remove.
func HashValue(value string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(value))
	return h.Sum64()
}

// Store wraps a transaction's facets bucket.
type Store struct {
	tx *kv.Tx
}

// New wraps a transaction's facets bucket.
func New(tx *kv.Tx) *Store { return &Store{tx: tx} }

// Get returns the sorted DocumentId set for (field, value), or nil if
// absent.
func (s *Store) Get(field model.FieldId, value string) []model.DocumentId {
	raw := s.tx.Bucket(kv.BucketFacets).Get(codec.EncodeFacetKey(field, HashValue(value)))
	if raw == nil {
		return nil
	}
	return codec.DecodeDocumentIds(raw)
}

// Add inserts doc into the set stored for (field, value).
func (s *Store) Add(field model.FieldId, value string, doc model.DocumentId) error {
	key := codec.EncodeFacetKey(field, HashValue(value))
	existing := codec.DecodeDocumentIds(s.tx.Bucket(kv.BucketFacets).Get(key))
	if codec.ContainsDocumentId(existing, doc) {
		return nil
	}
	merged := codec.UnionDocumentIds(existing, []model.DocumentId{doc})
	return s.put(key, merged)
}

// Remove deletes doc from the set stored for (field, value), deleting the
// key entirely if it becomes empty.
func (s *Store) Remove(field model.FieldId, value string, doc model.DocumentId) error {
	key := codec.EncodeFacetKey(field, HashValue(value))
	existing := codec.DecodeDocumentIds(s.tx.Bucket(kv.BucketFacets).Get(key))
	remaining := codec.DifferenceDocumentIds(existing, []model.DocumentId{doc})
	if len(remaining) == 0 {
		if err := s.tx.Bucket(kv.BucketFacets).Delete(key); err != nil {
			return internalerrors.NewStorageError("facets delete", err)
		}
		return nil
	}
	return s.put(key, remaining)
}

func (s *Store) put(key []byte, ids []model.DocumentId) error {
	if err := s.tx.Bucket(kv.BucketFacets).Put(key, codec.EncodeDocumentIds(ids)); err != nil {
		return internalerrors.NewStorageError("facets put", err)
	}
	return nil
}

// Values scans every facet key stored for field, returning each value's
// hash and document set (the store has no value-string index; callers
// needing the original string must keep their own mapping, e.g. by
// re-deriving it from DocumentsFields).
func (s *Store) Values(field model.FieldId) map[uint64][]model.DocumentId {
	b := s.tx.Bucket(kv.BucketFacets)
	c := b.Cursor()
	prefix := codec.EncodeFacetFieldPrefix(field)

	out := map[uint64][]model.DocumentId{}
	for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
		_, hash := decodeFacetKey(k)
		out[hash] = codec.DecodeDocumentIds(v)
	}
	return out
}

func decodeFacetKey(key []byte) (model.FieldId, uint64) {
	field := model.FieldId(binary.BigEndian.Uint16(key[:2]))
	hash := binary.BigEndian.Uint64(key[2:10])
	return field, hash
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
