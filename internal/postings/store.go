// Package postings implements the word -> sorted match-record store
// spec.md §4.3 describes: the posting list for a word, a sorted set of
// fixed 13-byte records, with byte-exact on-disk layout so the database is
// readable by any implementation honoring the same contract.
package postings

import (
	"sort"

	"github.com/gcbaptista/searchcore/internal/codec"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

// Store wraps a transaction's postings-lists bucket.
type Store struct {
	tx *kv.Tx
}

// New wraps a transaction's postings-lists bucket.
func New(tx *kv.Tx) *Store { return &Store{tx: tx} }

// Get returns the sorted match records for word, or nil if absent.
func (s *Store) Get(word []byte) []model.PostingRecord {
	raw := s.tx.Bucket(kv.BucketPostingsLists).Get(word)
	if raw == nil {
		return nil
	}
	return codec.DecodePostingRecords(raw)
}

// Put stores matches for word. matches must be non-empty and sorted by
// (document_id, attribute, word_index) per spec.md §4.3; Put does not sort
// defensively.
func (s *Store) Put(word []byte, matches []model.PostingRecord) error {
	if len(matches) == 0 {
		return s.Delete(word)
	}
	err := s.tx.Bucket(kv.BucketPostingsLists).Put(word, codec.EncodePostingRecords(matches))
	if err != nil {
		return internalerrors.NewStorageError("postings put", err)
	}
	return nil
}

// Delete removes word's posting list entirely.
func (s *Store) Delete(word []byte) error {
	if err := s.tx.Bucket(kv.BucketPostingsLists).Delete(word); err != nil {
		return internalerrors.NewStorageError("postings delete", err)
	}
	return nil
}

// WordMatches pairs a word with its posting records, returned by PrefixScan
// in lexicographic word order.
type WordMatches struct {
	Word    []byte
	Matches []model.PostingRecord
}

// PrefixScan returns every (word, matches) pair whose word starts with
// prefix, ordered lexicographically — used to build the prefix cache
// (spec.md §4.3, §4.8).
func (s *Store) PrefixScan(prefix []byte) []WordMatches {
	b := s.tx.Bucket(kv.BucketPostingsLists)
	c := b.Cursor()

	var out []WordMatches
	for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
		word := make([]byte, len(k))
		copy(word, k)
		out = append(out, WordMatches{Word: word, Matches: codec.DecodePostingRecords(v)})
	}
	return out
}

// MergeUnion merges delta into the existing posting list for word using a
// sorted-set union (spec.md §4.7).
func (s *Store) MergeUnion(word []byte, delta []model.PostingRecord) error {
	existing := s.Get(word)
	if existing == nil {
		sortRecords(delta)
		return s.Put(word, delta)
	}
	return s.Put(word, unionRecords(existing, delta))
}

// RemoveByDocuments removes every match record whose DocumentID is in
// removed, returning the resulting posting list (empty if none remain).
func (s *Store) RemoveByDocuments(word []byte, removed map[model.DocumentId]bool) []model.PostingRecord {
	existing := s.Get(word)
	if len(existing) == 0 {
		return nil
	}
	kept := make([]model.PostingRecord, 0, len(existing))
	for _, r := range existing {
		if !removed[r.DocumentID] {
			kept = append(kept, r)
		}
	}
	return kept
}

func sortRecords(records []model.PostingRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].Less(records[j]) })
}

// unionRecords merges two record runs, both assumed sorted, de-duplicating
// exact-equal records.
func unionRecords(a, b []model.PostingRecord) []model.PostingRecord {
	sortRecords(b)
	out := make([]model.PostingRecord, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Less(b[j]):
			out = append(out, a[i])
			i++
		case b[j].Less(a[i]):
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
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
