// Package fstutil builds and merges the finite-state transducers spec.md
// uses as the word dictionary (words_fst), per-document word index, user-id
// map and stop-word set. Grounded on the bleve zap segment merge's
// technique of draining FST iterators and re-inserting into a fresh
// vellum.Builder (other_examples' bleve index-scorch-segment-zap-merge.go)
// since vellum itself exposes no direct union/difference call.
package fstutil

import (
	"bytes"
	"sort"

	"github.com/couchbase/vellum"

	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
)

// Entry is one (term, value) pair to insert into an FST. term must be
// unique per build; entries are sorted by Build before insertion since
// vellum requires keys in ascending lexicographic order.
type Entry struct {
	Term  []byte
	Value uint64
}

// Build constructs the raw bytes of an FST from entries, which need not
// already be sorted.
func Build(entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, internalerrors.NewSerializationError("fst build", err)
	}

	var prev []byte
	for _, e := range sorted {
		if prev != nil && bytes.Equal(prev, e.Term) {
			continue // duplicate term, keep first occurrence
		}
		if err := builder.Insert(e.Term, e.Value); err != nil {
			return nil, internalerrors.NewSerializationError("fst insert", err)
		}
		prev = e.Term
	}
	if err := builder.Close(); err != nil {
		return nil, internalerrors.NewSerializationError("fst close", err)
	}
	return buf.Bytes(), nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Term, entries[j].Term) < 0
	})
}

// Load parses raw FST bytes produced by Build (or by vellum directly).
func Load(data []byte) (*vellum.FST, error) {
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, internalerrors.NewSerializationError("fst load", err)
	}
	return fst, nil
}

// Get looks up term in the raw FST bytes, returning its value if present.
func Get(data []byte, term []byte) (uint64, bool, error) {
	fst, err := Load(data)
	if err != nil {
		return 0, false, err
	}
	defer fst.Close()
	val, found, err := fst.Get(term)
	if err != nil {
		return 0, false, internalerrors.NewSerializationError("fst get", err)
	}
	return val, found, nil
}

// Terms drains every (term, value) pair out of raw FST bytes in
// ascending order.
func Terms(data []byte) ([]Entry, error) {
	fst, err := Load(data)
	if err != nil {
		return nil, err
	}
	defer fst.Close()

	var entries []Entry
	itr, err := fst.Iterator(nil, nil)
	for err == nil {
		term, val := itr.Current()
		termCopy := make([]byte, len(term))
		copy(termCopy, term)
		entries = append(entries, Entry{Term: termCopy, Value: val})
		err = itr.Next()
	}
	if err != nil && err != vellum.ErrIteratorDone {
		return nil, internalerrors.NewSerializationError("fst iterate", err)
	}
	return entries, nil
}

// Union merges two raw FSTs, preferring b's value on term collisions
// (spec.md's new-overrides-old rule for re-indexed words).
func Union(a, b []byte) ([]byte, error) {
	aEntries, err := Terms(a)
	if err != nil {
		return nil, err
	}
	bEntries, err := Terms(b)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]uint64, len(aEntries)+len(bEntries))
	for _, e := range aEntries {
		merged[string(e.Term)] = e.Value
	}
	for _, e := range bEntries {
		merged[string(e.Term)] = e.Value
	}

	entries := make([]Entry, 0, len(merged))
	for term, val := range merged {
		entries = append(entries, Entry{Term: []byte(term), Value: val})
	}
	return Build(entries)
}

// Difference returns the FST of terms present in a but not in b.
func Difference(a, b []byte) ([]byte, error) {
	aEntries, err := Terms(a)
	if err != nil {
		return nil, err
	}
	bEntries, err := Terms(b)
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(bEntries))
	for _, e := range bEntries {
		exclude[string(e.Term)] = struct{}{}
	}

	entries := make([]Entry, 0, len(aEntries))
	for _, e := range aEntries {
		if _, skip := exclude[string(e.Term)]; !skip {
			entries = append(entries, e)
		}
	}
	return Build(entries)
}
