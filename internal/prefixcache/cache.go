// Package prefixcache materializes, for each short word prefix, the union
// of posting lists for every word in words_fst sharing that prefix
// (spec.md §4.8). Rebuilt eagerly at the end of every successful update
// because query-time latency matters more than write cost.
package prefixcache

import (
	"sort"

	"github.com/gcbaptista/searchcore/internal/codec"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/postings"
	"github.com/gcbaptista/searchcore/model"
)

// PrefixLen is the prefix byte length used by the reference design (2-3
// bytes); 3 gives a reasonable cache fan-out for typical vocabularies.
const PrefixLen = 3

// Store wraps the two prefix-cache buckets: documents (union of
// DocumentIds) and postings-lists (union of match records), both keyed by
// the raw prefix bytes.
type Store struct {
	tx *kv.Tx
}

// New wraps a transaction's prefix-cache buckets.
func New(tx *kv.Tx) *Store { return &Store{tx: tx} }

// Documents returns the cached union of DocumentIds for prefix.
func (s *Store) Documents(prefix []byte) []model.DocumentId {
	raw := s.tx.Bucket(kv.BucketPrefixDocumentsCache).Get(prefix)
	if raw == nil {
		return nil
	}
	return codec.DecodeDocumentIds(raw)
}

// Postings returns the cached union of match records for prefix.
func (s *Store) Postings(prefix []byte) []model.PostingRecord {
	raw := s.tx.Bucket(kv.BucketPrefixPostingsCache).Get(prefix)
	if raw == nil {
		return nil
	}
	return codec.DecodePostingRecords(raw)
}

// Rebuild recomputes both caches from the current words_fst and posting
// store, replacing whatever was stored before.
func Rebuild(tx *kv.Tx, wordsFST []byte) error {
	if err := clear(tx, kv.BucketPrefixDocumentsCache); err != nil {
		return err
	}
	if err := clear(tx, kv.BucketPrefixPostingsCache); err != nil {
		return err
	}
	if len(wordsFST) == 0 {
		return nil
	}

	entries, err := fstutil.Terms(wordsFST)
	if err != nil {
		return err
	}

	postingStore := postings.New(tx)
	prefixDocs := map[string][]model.DocumentId{}
	prefixMatches := map[string][]model.PostingRecord{}

	for _, e := range entries {
		if len(e.Term) < PrefixLen {
			continue
		}
		prefix := string(e.Term[:PrefixLen])
		matches := postingStore.Get(e.Term)
		if len(matches) == 0 {
			continue
		}

		docIDs := make([]model.DocumentId, 0, len(matches))
		seen := map[model.DocumentId]bool{}
		for _, m := range matches {
			if !seen[m.DocumentID] {
				seen[m.DocumentID] = true
				docIDs = append(docIDs, m.DocumentID)
			}
		}
		codec.SortDocumentIds(docIDs)

		prefixDocs[prefix] = codec.UnionDocumentIds(prefixDocs[prefix], docIDs)
		prefixMatches[prefix] = mergeMatches(prefixMatches[prefix], matches)
	}

	docsBucket := tx.Bucket(kv.BucketPrefixDocumentsCache)
	for prefix, ids := range prefixDocs {
		if err := docsBucket.Put([]byte(prefix), codec.EncodeDocumentIds(ids)); err != nil {
			return internalerrors.NewStorageError("prefix-documents-cache put", err)
		}
	}

	postingsBucket := tx.Bucket(kv.BucketPrefixPostingsCache)
	for prefix, matches := range prefixMatches {
		sortMatches(matches)
		union := matches[:0]
		for _, m := range matches {
			if len(union) == 0 || union[len(union)-1] != m {
				union = append(union, m)
			}
		}
		if err := postingsBucket.Put([]byte(prefix), codec.EncodePostingRecords(union)); err != nil {
			return internalerrors.NewStorageError("prefix-postings-lists-cache put", err)
		}
	}

	return nil
}

func mergeMatches(existing, more []model.PostingRecord) []model.PostingRecord {
	return append(existing, more...)
}

func sortMatches(matches []model.PostingRecord) {
	sort.Slice(matches, func(i, j int) bool { return matches[i].Less(matches[j]) })
}

func clear(tx *kv.Tx, bucket []byte) error {
	b := tx.Bucket(bucket)
	c := b.Cursor()
	var keys [][]byte
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keyCopy := make([]byte, len(k))
		copy(keyCopy, k)
		keys = append(keys, keyCopy)
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return internalerrors.NewStorageError("prefix cache clear", err)
		}
	}
	return nil
}
