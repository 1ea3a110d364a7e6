// Package mainstore implements the main space (M) single logical table
// spec.md §4.2 describes: schema, words FST, identity maps, ranked map,
// counters, and settings, each keyed by a short stable ASCII string.
package mainstore

import (
	"time"

	"github.com/gcbaptista/searchcore/config"
	"github.com/gcbaptista/searchcore/internal/codec"
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
	"github.com/gcbaptista/searchcore/internal/fstutil"
	"github.com/gcbaptista/searchcore/internal/kv"
	"github.com/gcbaptista/searchcore/model"
)

// Key strings, stable across versions (spec.md §4.2/§6).
const (
	keySchema                = "schema"
	keyWords                 = "words"
	keyUserIds               = "user-ids"
	keyInternalIds           = "internal-ids"
	keyRankedMap             = "ranked-map"
	keyNumberOfDocuments     = "number-of-documents"
	keyFieldsFrequency       = "fields-frequency"
	keyAttributesForFaceting = "attributes-for-faceting"
	keyRankingRules          = "ranking-rules"
	keyDistinctAttribute     = "distinct-attribute"
	keyStopWords             = "stop-words"
	keySynonyms              = "synonyms"
	keyCreatedAt             = "created-at"
	keyUpdatedAt             = "updated-at"
	keyName                  = "name"
	keyCustoms               = "customs"
)

// Store operates against a single transaction's main bucket.
type Store struct {
	tx *kv.Tx
}

// New wraps a transaction's main bucket.
func New(tx *kv.Tx) *Store {
	return &Store{tx: tx}
}

// Clear removes every key from the main bucket, settings included. The
// ClearAll update kind does not call it: it resets only document-scoped keys.
func (s *Store) Clear() error {
	b := s.tx.Bucket(kv.BucketMain)
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if err := b.Delete(k); err != nil {
			return internalerrors.NewStorageError("clear main store", err)
		}
	}
	return nil
}

// GetSchema loads the persisted schema, returning ErrSchemaMissing if
// absent.
func (s *Store) GetSchema() (*model.Schema, error) {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keySchema))
	if raw == nil {
		return nil, internalerrors.ErrSchemaMissing
	}
	var schema model.Schema
	if err := codec.DecodeStructured(raw, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// PutSchema persists the schema.
func (s *Store) PutSchema(schema *model.Schema) error {
	return s.putStructured(keySchema, schema)
}

// GetWordsFST returns the raw FST bytes, or nil if none indexed yet.
func (s *Store) GetWordsFST() []byte {
	return copyBytes(s.tx.Bucket(kv.BucketMain).Get([]byte(keyWords)))
}

// PutWordsFST persists the raw FST bytes.
func (s *Store) PutWordsFST(data []byte) error {
	return s.put(keyWords, data)
}

// GetUserIds returns the raw user-id FST bytes (UserId -> DocumentId),
// or nil if none indexed yet.
func (s *Store) GetUserIds() []byte {
	return copyBytes(s.tx.Bucket(kv.BucketMain).Get([]byte(keyUserIds)))
}

// PutUserIds persists the raw user-id FST bytes.
func (s *Store) PutUserIds(data []byte) error {
	return s.put(keyUserIds, data)
}

// MergeUserIds folds newEntries into the existing user-id FST, keeping the
// new side's value on collision. This is correct only because the
// addition pipeline's identity resolver (spec.md §4.4 step 2) guarantees a
// re-added UserId always maps to the same DocumentId it already had;
// MergeUserIds does not re-validate that invariant.
func (s *Store) MergeUserIds(newEntries []byte) error {
	existing := s.GetUserIds()
	if existing == nil {
		return s.PutUserIds(newEntries)
	}
	merged, err := fstutil.Union(existing, newEntries)
	if err != nil {
		return err
	}
	return s.PutUserIds(merged)
}

// RemoveUserIds subtracts removedEntries from the existing user-id FST.
func (s *Store) RemoveUserIds(removedEntries []byte) error {
	existing := s.GetUserIds()
	if existing == nil {
		return nil
	}
	diff, err := fstutil.Difference(existing, removedEntries)
	if err != nil {
		return err
	}
	return s.PutUserIds(diff)
}

// GetInternalIds returns the sorted set of live DocumentIds.
func (s *Store) GetInternalIds() []model.DocumentId {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyInternalIds))
	if raw == nil {
		return nil
	}
	return codec.DecodeDocumentIds(raw)
}

// PutInternalIds persists the sorted set of live DocumentIds.
func (s *Store) PutInternalIds(ids []model.DocumentId) error {
	return s.put(keyInternalIds, codec.EncodeDocumentIds(ids))
}

// GetRankedMap loads the ranked map, defaulting to an empty one if absent.
func (s *Store) GetRankedMap() (*model.RankedMap, error) {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyRankedMap))
	if raw == nil {
		return model.NewRankedMap(), nil
	}
	rm := model.NewRankedMap()
	if err := codec.DecodeStructured(raw, &rm.Entries); err != nil {
		return nil, err
	}
	return rm, nil
}

// PutRankedMap persists the ranked map.
func (s *Store) PutRankedMap(rm *model.RankedMap) error {
	return s.putStructured(keyRankedMap, rm.Entries)
}

// GetNumberOfDocuments returns the current document count.
func (s *Store) GetNumberOfDocuments() uint64 {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyNumberOfDocuments))
	if raw == nil {
		return 0
	}
	return codec.DecodeU64(raw)
}

// PutNumberOfDocuments reads the old counter and stores f(old) atomically
// within the caller's transaction (spec.md §4.2).
func (s *Store) PutNumberOfDocuments(f func(old uint64) uint64) error {
	return s.put(keyNumberOfDocuments, codec.EncodeU64(f(s.GetNumberOfDocuments())))
}

// GetFieldsFrequency loads the per-field occurrence-count map, defaulting
// to empty.
func (s *Store) GetFieldsFrequency() (map[model.FieldId]uint64, error) {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyFieldsFrequency))
	if raw == nil {
		return map[model.FieldId]uint64{}, nil
	}
	freq := map[model.FieldId]uint64{}
	if err := codec.DecodeStructured(raw, &freq); err != nil {
		return nil, err
	}
	return freq, nil
}

// PutFieldsFrequency persists the per-field occurrence-count map.
func (s *Store) PutFieldsFrequency(freq map[model.FieldId]uint64) error {
	return s.putStructured(keyFieldsFrequency, freq)
}

// GetAttributesForFaceting loads the set of faceted field ids, defaulting
// to empty.
func (s *Store) GetAttributesForFaceting() ([]model.FieldId, error) {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyAttributesForFaceting))
	if raw == nil {
		return nil, nil
	}
	var fields []model.FieldId
	if err := codec.DecodeStructured(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// PutAttributesForFaceting persists the set of faceted field ids.
func (s *Store) PutAttributesForFaceting(fields []model.FieldId) error {
	return s.putStructured(keyAttributesForFaceting, fields)
}

// GetRankingRules loads the configured ranking rules, defaulting to empty.
func (s *Store) GetRankingRules() ([]config.RankingRule, error) {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyRankingRules))
	if raw == nil {
		return nil, nil
	}
	var rules []config.RankingRule
	if err := codec.DecodeStructured(raw, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// PutRankingRules persists the configured ranking rules.
func (s *Store) PutRankingRules(rules []config.RankingRule) error {
	return s.putStructured(keyRankingRules, rules)
}

// GetDistinctAttribute loads the configured distinct field name, if any.
func (s *Store) GetDistinctAttribute() string {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keyDistinctAttribute))
	return string(raw)
}

// PutDistinctAttribute persists the configured distinct field name.
func (s *Store) PutDistinctAttribute(name string) error {
	return s.put(keyDistinctAttribute, []byte(name))
}

// GetStopWordsFST returns the raw stop-words FST bytes, or nil if unset.
func (s *Store) GetStopWordsFST() []byte {
	return copyBytes(s.tx.Bucket(kv.BucketMain).Get([]byte(keyStopWords)))
}

// PutStopWordsFST persists the raw stop-words FST bytes.
func (s *Store) PutStopWordsFST(data []byte) error {
	return s.put(keyStopWords, data)
}

// GetSynonyms loads the configured word->synonyms map, defaulting to
// empty.
func (s *Store) GetSynonyms() (map[string][]string, error) {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(keySynonyms))
	if raw == nil {
		return map[string][]string{}, nil
	}
	synonyms := map[string][]string{}
	if err := codec.DecodeStructured(raw, &synonyms); err != nil {
		return nil, err
	}
	return synonyms, nil
}

// PutSynonyms persists the configured word->synonyms map.
func (s *Store) PutSynonyms(synonyms map[string][]string) error {
	return s.putStructured(keySynonyms, synonyms)
}

// GetCreatedAt / GetUpdatedAt return the stored timestamps, zero if unset.
func (s *Store) GetCreatedAt() time.Time { return s.getTime(keyCreatedAt) }
func (s *Store) GetUpdatedAt() time.Time { return s.getTime(keyUpdatedAt) }

// TouchCreatedAt sets created-at to now if it is not already set.
func (s *Store) TouchCreatedAt(now time.Time) error {
	if !s.GetCreatedAt().IsZero() {
		return nil
	}
	return s.putTime(keyCreatedAt, now)
}

// TouchUpdatedAt sets updated-at to now unconditionally. put itself does
// not stamp it; the pipelines call this once at the end of each update.
func (s *Store) TouchUpdatedAt(now time.Time) error {
	return s.putTime(keyUpdatedAt, now)
}

func (s *Store) getTime(key string) time.Time {
	raw := s.tx.Bucket(kv.BucketMain).Get([]byte(key))
	if raw == nil {
		return time.Time{}
	}
	var t time.Time
	if err := t.UnmarshalBinary(raw); err != nil {
		return time.Time{}
	}
	return t
}

func (s *Store) putTime(key string, t time.Time) error {
	raw, err := t.MarshalBinary()
	if err != nil {
		return internalerrors.NewSerializationError(key, err)
	}
	return s.put(key, raw)
}

// GetName / PutName store the index's display name.
func (s *Store) GetName() string {
	return string(s.tx.Bucket(kv.BucketMain).Get([]byte(keyName)))
}

func (s *Store) PutName(name string) error {
	return s.put(keyName, []byte(name))
}

// GetCustoms / PutCustoms store the opaque customs blob (spec.md
// Supplemented Features: caller-defined metadata passed through
// untouched).
func (s *Store) GetCustoms() []byte {
	return copyBytes(s.tx.Bucket(kv.BucketMain).Get([]byte(keyCustoms)))
}

func (s *Store) PutCustoms(data []byte) error {
	return s.put(keyCustoms, data)
}

func (s *Store) put(key string, value []byte) error {
	if err := s.tx.Bucket(kv.BucketMain).Put([]byte(key), value); err != nil {
		return internalerrors.NewStorageError("main store put "+key, err)
	}
	return nil
}

func (s *Store) putStructured(key string, v interface{}) error {
	raw, err := codec.EncodeStructured(v)
	if err != nil {
		return err
	}
	return s.put(key, raw)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
