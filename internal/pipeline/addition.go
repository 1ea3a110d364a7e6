package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gcbaptista/searchcore/internal/codec"
	"github.com/gcbaptista/searchcore/internal/docstore"
	"github.com/gcbaptista/searchcore/internal/docwords"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/facets"
	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/ids"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/internal/mainstore"
	"github.com/gcbaptista/searchcore/internal/postings"
	"github.com/gcbaptista/searchcore/internal/prefixcache"
	"github.com/gcbaptista/searchcore/internal/rawindexer"
	internalschema "github.com/gcbaptista/searchcore/internal/schema"
	"github.com/gcbaptista/searchcore/model"
)

// AdditionResult reports how many distinct documents this addition
// created (a UserId never seen before). Re-adding an existing UserId
// updates it in place and is not counted here.
type AdditionResult struct {
	Inserted int
}

// ApplyAddition resolves identity, optionally partial-merges against
// stored fields, deletes prior versions for idempotence, then re-indexes
// every document, per spec.md §4.4. partial selects
// apply_documents_partial_addition vs. apply_documents_addition.
func ApplyAddition(tx *kv.Tx, docs []*model.Document, partial bool) (*AdditionResult, error) {
	main := mainstore.New(tx)
	sch, err := main.GetSchema()
	if err != nil {
		return nil, err
	}

	if !sch.HasPrimaryKey && len(docs) > 0 {
		internalschema.InferPrimaryKey(sch, docs[0].Keys())
	}
	if !sch.HasPrimaryKey {
		return nil, internalerrors.ErrMissingPrimaryKey
	}

	userIdsFST := main.GetUserIds()
	discoverer := ids.NewDiscoverer(main.GetInternalIds())

	order := make([]model.DocumentId, 0, len(docs))
	byDoc := map[model.DocumentId]*model.Document{}
	newByUserID := map[string]model.DocumentId{}
	var newUserEntries []fstutil.Entry
	var newInternalIds []model.DocumentId

	for _, d := range docs {
		userID, err := d.FieldAsUserID(sch.PrimaryKeyName)
		if err != nil {
			return nil, err
		}

		var docID model.DocumentId
		val, found, err := fstutil.Get(userIdsFST, []byte(userID))
		if err != nil {
			return nil, err
		}
		if found {
			docID = model.DocumentId(val)
		} else if assigned, seen := newByUserID[userID]; seen {
			docID = assigned
		} else {
			docID = discoverer.Next()
			newByUserID[userID] = docID
			newInternalIds = append(newInternalIds, docID)
			newUserEntries = append(newUserEntries, fstutil.Entry{Term: []byte(userID), Value: uint64(docID)})
		}

		if existing, seen := byDoc[docID]; seen {
			for _, k := range d.Keys() {
				v, _ := d.Get(k)
				existing.Set(k, v)
			}
		} else {
			order = append(order, docID)
			byDoc[docID] = d.Clone()
		}
	}

	fieldsStore := docstore.NewFields(tx)
	if partial {
		for _, docID := range order {
			oldFields, err := fieldsStore.FieldsOf(docID)
			if err != nil {
				return nil, err
			}
			if len(oldFields) == 0 {
				continue
			}
			doc := byDoc[docID]
			present := map[string]bool{}
			for _, k := range doc.Keys() {
				present[k] = true
			}
			for fieldID, raw := range oldFields {
				name, ok := sch.FieldName(fieldID)
				if !ok || present[name] {
					continue
				}
				doc.Set(name, decodeFieldValue(raw))
			}
		}
	}

	// Delete prior versions before re-indexing, so re-addition is
	// idempotent (spec.md §4.4 step 5).
	if _, _, err := deleteByDocumentIDs(tx, sch, order); err != nil {
		return nil, err
	}

	rankedMap, err := main.GetRankedMap()
	if err != nil {
		return nil, err
	}
	stopWordsFST := main.GetStopWordsFST()
	attributesForFaceting, err := main.GetAttributesForFaceting()
	if err != nil {
		return nil, err
	}
	fieldsFrequency, err := main.GetFieldsFrequency()
	if err != nil {
		return nil, err
	}

	indexer, err := rawindexer.New(stopWordsFST)
	if err != nil {
		return nil, err
	}

	countsStore := docstore.NewCounts(tx)
	facetsStore := facets.New(tx)

	for _, docID := range order {
		doc := byDoc[docID]
		for _, name := range doc.Keys() {
			value, _ := doc.Get(name)

			fieldID, existed := sch.FieldID(name)
			if !existed {
				// A field not already declared searchable by a prior
				// Settings update is stored but not tokenized.
				fieldID, err = sch.Intern(name)
				if err != nil {
					return nil, err
				}
			}

			raw, err := marshalFieldValue(value)
			if err != nil {
				return nil, err
			}
			if err := fieldsStore.Put(docID, fieldID, raw); err != nil {
				return nil, err
			}

			if pos, indexed := sch.IsIndexed(fieldID); indexed {
				if s, ok := value.(string); ok {
					indexer.Index(docID, pos, s)
				}
				if count := indexer.TokenCount(docID, pos); count > 0 {
					if err := countsStore.Put(docID, fieldID, count); err != nil {
						return nil, err
					}
					fieldsFrequency[fieldID]++
				}
			}

			if sch.IsRanked(fieldID) {
				rankedMap.Insert(docID, fieldID, coerceNumber(value))
			}

			for _, facetField := range attributesForFaceting {
				if facetField != fieldID {
					continue
				}
				s, ok := stringifyFacetValue(value)
				if !ok {
					return nil, internalerrors.NewFacetError(name, fmt.Errorf("unsupported facet value type %T", value))
				}
				if err := facetsStore.Add(fieldID, s, docID); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := mergePostingsAndWords(tx, main, indexer, order); err != nil {
		return nil, err
	}

	if err := main.PutSchema(sch); err != nil {
		return nil, err
	}
	if err := main.PutFieldsFrequency(fieldsFrequency); err != nil {
		return nil, err
	}
	if err := main.PutRankedMap(rankedMap); err != nil {
		return nil, err
	}
	if err := main.PutNumberOfDocuments(func(old uint64) uint64 { return old + uint64(len(newInternalIds)) }); err != nil {
		return nil, err
	}
	if len(newUserEntries) > 0 {
		newUserFST, err := fstutil.Build(newUserEntries)
		if err != nil {
			return nil, err
		}
		if err := main.MergeUserIds(newUserFST); err != nil {
			return nil, err
		}
	}
	touchedIds := make([]model.DocumentId, len(order))
	copy(touchedIds, order)
	codec.SortDocumentIds(touchedIds)
	mergedInternalIds := codec.UnionDocumentIds(main.GetInternalIds(), touchedIds)
	if err := main.PutInternalIds(mergedInternalIds); err != nil {
		return nil, err
	}
	if err := prefixcache.Rebuild(tx, main.GetWordsFST()); err != nil {
		return nil, err
	}
	now := time.Now()
	if err := main.TouchCreatedAt(now); err != nil {
		return nil, err
	}
	if err := main.TouchUpdatedAt(now); err != nil {
		return nil, err
	}

	return &AdditionResult{Inserted: len(newInternalIds)}, nil
}

// mergePostingsAndWords folds the indexer's accumulated delta into the
// posting store and words_fst (spec.md §4.7).
func mergePostingsAndWords(tx *kv.Tx, main *mainstore.Store, indexer *rawindexer.Indexer, docIDs []model.DocumentId) error {
	delta := indexer.Delta()
	if len(delta) == 0 {
		return nil
	}

	postingStore := postings.New(tx)
	wordsStore := docwords.New(tx)

	deltaEntries := make([]fstutil.Entry, 0, len(delta))
	for word, records := range delta {
		if err := postingStore.MergeUnion([]byte(word), records); err != nil {
			return err
		}
		deltaEntries = append(deltaEntries, fstutil.Entry{Term: []byte(word), Value: 0})
	}

	for _, docID := range docIDs {
		if words := indexer.DocWords(docID); len(words) > 0 {
			if err := wordsStore.Put(docID, words); err != nil {
				return err
			}
		}
	}

	deltaWordsFST, err := fstutil.Build(deltaEntries)
	if err != nil {
		return err
	}
	current := main.GetWordsFST()
	if current == nil {
		return main.PutWordsFST(deltaWordsFST)
	}
	merged, err := fstutil.Union(current, deltaWordsFST)
	if err != nil {
		return err
	}
	return main.PutWordsFST(merged)
}

func marshalFieldValue(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
