package pipeline

import (
	"time"

	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/mainstore"
	"github.com/gcbaptista/searchcore/model"
)

// documentBuckets lists every bucket that holds per-document state. Index
// settings (schema, ranking rules, stop words, synonyms) live in
// BucketMain outside this set and survive a clear.
var documentBuckets = [][]byte{
	kv.BucketPostingsLists,
	kv.BucketDocumentsFields,
	kv.BucketDocumentsFieldsCounts,
	kv.BucketDocsWords,
	kv.BucketPrefixDocumentsCache,
	kv.BucketPrefixPostingsCache,
	kv.BucketFacets,
}

// ClearAll removes every document from the index while leaving its
// configured settings in place, per spec.md §4.4's clear_all update kind.
func ClearAll(tx *kv.Tx) error {
	for _, name := range documentBuckets {
		if err := wipeBucket(tx, name); err != nil {
			return err
		}
	}

	main := mainstore.New(tx)
	emptyFST, err := fstutil.Build(nil)
	if err != nil {
		return err
	}
	if err := main.PutUserIds(emptyFST); err != nil {
		return err
	}
	if err := main.PutWordsFST(nil); err != nil {
		return err
	}
	if err := main.PutInternalIds([]model.DocumentId{}); err != nil {
		return err
	}
	if err := main.PutRankedMap(model.NewRankedMap()); err != nil {
		return err
	}
	if err := main.PutFieldsFrequency(map[model.FieldId]uint64{}); err != nil {
		return err
	}
	if err := main.PutNumberOfDocuments(func(uint64) uint64 { return 0 }); err != nil {
		return err
	}
	return main.TouchUpdatedAt(time.Now())
}

func wipeBucket(tx *kv.Tx, name []byte) error {
	b := tx.Bucket(name)
	c := b.Cursor()
	var keys [][]byte
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
