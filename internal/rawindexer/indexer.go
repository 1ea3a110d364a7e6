// Package rawindexer implements the RawIndexer capability spec.md §4.4
// step 8 treats as a collaborator: tokenize a field value at its
// IndexedPosition and emit posting occurrences, filtering stop words and
// recording both exact tokens and their prefix n-grams.
package rawindexer

import (
	"sort"

	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/model"
)

// Indexer accumulates an in-memory word -> posting-delta map across one
// addition transaction, seeded with the index's current stop words.
type Indexer struct {
	stopWords map[string]bool
	delta     map[string][]model.PostingRecord
	docWords  map[model.DocumentId]map[string]bool
	counts    map[model.DocumentId]map[model.IndexedPosition]uint32
}

// New builds an Indexer seeded with stopWordsFST (raw FST bytes, may be
// nil for no stop words).
func New(stopWordsFST []byte) (*Indexer, error) {
	stopWords := map[string]bool{}
	if len(stopWordsFST) > 0 {
		entries, err := fstutil.Terms(stopWordsFST)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			stopWords[string(e.Term)] = true
		}
	}
	return &Indexer{
		stopWords: stopWords,
		delta:     map[string][]model.PostingRecord{},
		docWords:  map[model.DocumentId]map[string]bool{},
		counts:    map[model.DocumentId]map[model.IndexedPosition]uint32{},
	}, nil
}

// Index tokenizes value and records an occurrence at (doc, attribute) for
// every non-stop-word token, plus its prefix n-grams marked non-exact.
func (ix *Indexer) Index(doc model.DocumentId, attribute model.IndexedPosition, value string) {
	tokens := splitWords(value)

	var wordIndex uint16
	for _, token := range tokens {
		if ix.stopWords[token] {
			continue
		}

		ix.record(doc, attribute, wordIndex, token, true)
		for _, ngram := range prefixNGrams(token) {
			if ngram == token {
				continue
			}
			ix.record(doc, attribute, wordIndex, ngram, false)
		}

		ix.bumpCount(doc, attribute)
		wordIndex++
	}
}

func (ix *Indexer) record(doc model.DocumentId, attribute model.IndexedPosition, wordIndex uint16, word string, exact bool) {
	ix.delta[word] = append(ix.delta[word], model.PostingRecord{
		DocumentID: doc,
		Attribute:  attribute,
		WordIndex:  wordIndex,
		IsExact:    exact,
	})

	if ix.docWords[doc] == nil {
		ix.docWords[doc] = map[string]bool{}
	}
	ix.docWords[doc][word] = true
}

func (ix *Indexer) bumpCount(doc model.DocumentId, attribute model.IndexedPosition) {
	if ix.counts[doc] == nil {
		ix.counts[doc] = map[model.IndexedPosition]uint32{}
	}
	ix.counts[doc][attribute]++
}

// Delta returns the accumulated word -> posting-delta map, each entry
// sorted per PostingRecord.Less (spec.md §4.3's invariant).
func (ix *Indexer) Delta() map[string][]model.PostingRecord {
	for word, records := range ix.delta {
		sort.Slice(records, func(i, j int) bool { return records[i].Less(records[j]) })
		ix.delta[word] = records
	}
	return ix.delta
}

// DocWords returns the sorted distinct words touched for doc.
func (ix *Indexer) DocWords(doc model.DocumentId) [][]byte {
	words := ix.docWords[doc]
	if len(words) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(words))
	for w := range words {
		out = append(out, []byte(w))
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i]) < string(out[j]) })
	return out
}

// TokenCount returns the number of indexed (non-stop-word) tokens recorded
// for (doc, attribute).
func (ix *Indexer) TokenCount(doc model.DocumentId, attribute model.IndexedPosition) uint32 {
	return ix.counts[doc][attribute]
}
