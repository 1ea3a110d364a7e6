// Package pipeline implements the addition and deletion pipelines spec.md
// §4.4/§4.5 describe, each executed inside a single kv.Env write
// transaction so failure at any step leaves no partial state observable.
package pipeline

import (
	"time"

	"github.com/gcbaptista/searchcore/internal/codec"
	"github.com/gcbaptista/searchcore/internal/docstore"
	"github.com/gcbaptista/searchcore/internal/docwords"
	"github.com/gcbaptista/searchcore/internal/facets"
	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/mainstore"
	"github.com/gcbaptista/searchcore/internal/postings"
	"github.com/gcbaptista/searchcore/internal/prefixcache"
	"github.com/gcbaptista/searchcore/model"
)

// DeletionResult reports how many of the requested UserIds corresponded to
// an actual stored document (unknown UserIds are silently skipped,
// spec.md §7).
type DeletionResult struct {
	ActuallyDeleted int
}

// ApplyDeletion resolves userIDs to DocumentIds and removes every trace of
// them from every sub-store, per spec.md §4.5.
func ApplyDeletion(tx *kv.Tx, userIDs []string) (*DeletionResult, error) {
	main := mainstore.New(tx)
	sch, err := main.GetSchema()
	if err != nil {
		return nil, err
	}

	userIdsFST := main.GetUserIds()
	var docIDs []model.DocumentId
	var removedEntries []fstutil.Entry
	for _, uid := range userIDs {
		val, found, err := fstutil.Get(userIdsFST, []byte(uid))
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		docIDs = append(docIDs, model.DocumentId(val))
		removedEntries = append(removedEntries, fstutil.Entry{Term: []byte(uid), Value: val})
	}
	codec.SortDocumentIds(docIDs)

	actuallyDeleted, removedWords, err := deleteByDocumentIDs(tx, sch, docIDs)
	if err != nil {
		return nil, err
	}

	if len(removedEntries) > 0 {
		removedFST, err := fstutil.Build(removedEntries)
		if err != nil {
			return nil, err
		}
		if err := main.RemoveUserIds(removedFST); err != nil {
			return nil, err
		}
	}

	if len(docIDs) > 0 {
		newInternalIds := codec.DifferenceDocumentIds(main.GetInternalIds(), docIDs)
		if err := main.PutInternalIds(newInternalIds); err != nil {
			return nil, err
		}
	}

	if err := main.PutNumberOfDocuments(func(old uint64) uint64 {
		if uint64(actuallyDeleted) > old {
			return 0
		}
		return old - uint64(actuallyDeleted)
	}); err != nil {
		return nil, err
	}

	if err := rebuildWordsFSTAfterRemoval(main, removedWords); err != nil {
		return nil, err
	}
	if err := prefixcache.Rebuild(tx, main.GetWordsFST()); err != nil {
		return nil, err
	}
	if err := main.TouchUpdatedAt(time.Now()); err != nil {
		return nil, err
	}

	return &DeletionResult{ActuallyDeleted: actuallyDeleted}, nil
}

// deleteByDocumentIDs removes postings, per-doc fields/counts, doc-words,
// ranked-map entries, and facet entries for every id in docIDs. It returns
// how many ids actually had persisted fields (the deletion pipeline's
// "actually deleted" count) and the set of words whose postings became
// empty as a result (candidates for removal from words_fst).
func deleteByDocumentIDs(tx *kv.Tx, sch *model.Schema, docIDs []model.DocumentId) (int, map[string]bool, error) {
	if len(docIDs) == 0 {
		return 0, nil, nil
	}

	main := mainstore.New(tx)
	rankedMap, err := main.GetRankedMap()
	if err != nil {
		return 0, nil, err
	}
	attributesForFaceting, err := main.GetAttributesForFaceting()
	if err != nil {
		return 0, nil, err
	}
	fieldsFrequency, err := main.GetFieldsFrequency()
	if err != nil {
		return 0, nil, err
	}

	fieldsStore := docstore.NewFields(tx)
	countsStore := docstore.NewCounts(tx)
	wordsStore := docwords.New(tx)
	postingStore := postings.New(tx)
	facetsStore := facets.New(tx)

	removedSet := make(map[model.DocumentId]bool, len(docIDs))
	for _, id := range docIDs {
		removedSet[id] = true
	}

	removedWords := map[string]bool{}
	actuallyDeleted := 0

	for _, doc := range docIDs {
		rankedMap.RemoveDocument(doc, sch.RankedFieldOrder())

		if len(attributesForFaceting) > 0 {
			fields, err := fieldsStore.FieldsOf(doc)
			if err != nil {
				return 0, nil, err
			}
			for _, fieldID := range attributesForFaceting {
				raw, ok := fields[fieldID]
				if !ok {
					continue
				}
				if s, ok := stringifyFacetValue(decodeFieldValue(raw)); ok {
					if err := facetsStore.Remove(fieldID, s, doc); err != nil {
						return 0, nil, err
					}
				}
			}
		}

		words, err := wordsStore.Get(doc)
		if err != nil {
			return 0, nil, err
		}
		for _, w := range words {
			remaining := postingStore.RemoveByDocuments(w, removedSet)
			if err := postingStore.Put(w, remaining); err != nil {
				return 0, nil, err
			}
			if len(remaining) == 0 {
				removedWords[string(w)] = true
			}
		}
		if err := wordsStore.Delete(doc); err != nil {
			return 0, nil, err
		}

		hadFields, err := fieldsStore.DeleteAll(doc)
		if err != nil {
			return 0, nil, err
		}
		if hadFields {
			actuallyDeleted++
		}
		for _, fieldID := range countsStore.FieldsOf(doc) {
			if fieldsFrequency[fieldID] > 0 {
				fieldsFrequency[fieldID]--
			}
		}
		if err := countsStore.DeleteAll(doc); err != nil {
			return 0, nil, err
		}
	}

	if err := main.PutRankedMap(rankedMap); err != nil {
		return 0, nil, err
	}
	if err := main.PutFieldsFrequency(fieldsFrequency); err != nil {
		return 0, nil, err
	}

	return actuallyDeleted, removedWords, nil
}

// rebuildWordsFSTAfterRemoval prunes words_fst by FST-difference against
// the words whose postings emptied out (spec.md §4.5 step 8).
func rebuildWordsFSTAfterRemoval(main *mainstore.Store, removedWords map[string]bool) error {
	if len(removedWords) == 0 {
		return nil
	}
	current := main.GetWordsFST()
	if current == nil {
		return nil
	}

	entries := make([]fstutil.Entry, 0, len(removedWords))
	for w := range removedWords {
		entries = append(entries, fstutil.Entry{Term: []byte(w), Value: 0})
	}
	removedFST, err := fstutil.Build(entries)
	if err != nil {
		return err
	}
	pruned, err := fstutil.Difference(current, removedFST)
	if err != nil {
		return err
	}
	return main.PutWordsFST(pruned)
}
