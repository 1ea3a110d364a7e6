// Package docstore implements the per-document field stores spec.md §4.4
// names: DocumentsFields (doc, field) -> raw JSON bytes, and
// DocumentsFieldsCounts (doc, field) -> indexed token count.
package docstore

import (
	"encoding/binary"

	"github.com/gcbaptista/searchcore/internal/codec"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

// Fields wraps the documents-fields bucket: (DocumentId, FieldId) -> raw
// JSON-encoded field value.
type Fields struct {
	tx *kv.Tx
}

// NewFields wraps a transaction's documents-fields bucket.
func NewFields(tx *kv.Tx) *Fields { return &Fields{tx: tx} }

// Get returns the raw JSON bytes stored for (doc, field), or nil if unset.
func (f *Fields) Get(doc model.DocumentId, field model.FieldId) []byte {
	raw := f.tx.Bucket(kv.BucketDocumentsFields).Get(codec.EncodeDocField(doc, field))
	if raw == nil {
		return nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// Put stores the raw JSON bytes for (doc, field).
func (f *Fields) Put(doc model.DocumentId, field model.FieldId, value []byte) error {
	err := f.tx.Bucket(kv.BucketDocumentsFields).Put(codec.EncodeDocField(doc, field), value)
	if err != nil {
		return internalerrors.NewStorageError("documents-fields put", err)
	}
	return nil
}

// FieldsOf returns every (FieldId, raw value) pair stored for doc, as a map
// keyed by FieldId (so with no defined iteration order), by scanning the
// doc's key prefix.
func (f *Fields) FieldsOf(doc model.DocumentId) (map[model.FieldId][]byte, error) {
	b := f.tx.Bucket(kv.BucketDocumentsFields)
	c := b.Cursor()
	prefix := codec.EncodeDocPrefix(doc)

	out := map[model.FieldId][]byte{}
	for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
		_, field := codec.DecodeDocField(k)
		value := make([]byte, len(v))
		copy(value, v)
		out[field] = value
	}
	return out, nil
}

// DeleteAll removes every field stored for doc, returning whether any were
// present (the deletion pipeline only counts a document as actually
// deleted if it had fields).
func (f *Fields) DeleteAll(doc model.DocumentId) (bool, error) {
	b := f.tx.Bucket(kv.BucketDocumentsFields)
	c := b.Cursor()
	prefix := codec.EncodeDocPrefix(doc)

	var any bool
	var keys [][]byte
	for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
		keyCopy := make([]byte, len(k))
		copy(keyCopy, k)
		keys = append(keys, keyCopy)
		any = true
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return any, internalerrors.NewStorageError("documents-fields delete", err)
		}
	}
	return any, nil
}

// Counts wraps the documents-fields-counts bucket: (DocumentId, FieldId)
// -> number of tokens indexed for that field, recorded when non-zero.
type Counts struct {
	tx *kv.Tx
}

// NewCounts wraps a transaction's documents-fields-counts bucket.
func NewCounts(tx *kv.Tx) *Counts { return &Counts{tx: tx} }

// Put records the token count for (doc, field). Callers only call this
// when count is non-zero, per spec.md §4.4 step 8.
func (c *Counts) Put(doc model.DocumentId, field model.FieldId, count uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, count)
	err := c.tx.Bucket(kv.BucketDocumentsFieldsCounts).Put(codec.EncodeDocField(doc, field), buf)
	if err != nil {
		return internalerrors.NewStorageError("documents-fields-counts put", err)
	}
	return nil
}

// Get returns the recorded token count for (doc, field), or 0 if unset.
func (c *Counts) Get(doc model.DocumentId, field model.FieldId) uint32 {
	raw := c.tx.Bucket(kv.BucketDocumentsFieldsCounts).Get(codec.EncodeDocField(doc, field))
	if raw == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(raw)
}

// FieldsOf returns every field id with a recorded count for doc.
func (c *Counts) FieldsOf(doc model.DocumentId) []model.FieldId {
	b := c.tx.Bucket(kv.BucketDocumentsFieldsCounts)
	cur := b.Cursor()
	prefix := codec.EncodeDocPrefix(doc)

	var fields []model.FieldId
	for k, _ := cur.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = cur.Next() {
		_, field := codec.DecodeDocField(k)
		fields = append(fields, field)
	}
	return fields
}

// DeleteAll removes every recorded count for doc.
func (c *Counts) DeleteAll(doc model.DocumentId) error {
	b := c.tx.Bucket(kv.BucketDocumentsFieldsCounts)
	cur := b.Cursor()
	prefix := codec.EncodeDocPrefix(doc)

	var keys [][]byte
	for k, _ := cur.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = cur.Next() {
		keyCopy := make([]byte, len(k))
		copy(keyCopy, k)
		keys = append(keys, keyCopy)
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return internalerrors.NewStorageError("documents-fields-counts delete", err)
		}
	}
	return nil
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
