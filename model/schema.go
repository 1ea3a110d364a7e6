package model

import (
	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
)

// FieldId is the interned identifier the schema assigns to a field name on
// first sight. It is dense, monotonically increasing, and never reused
// (fields are only ever added, per spec.md's Schema lifecycle invariant).
type FieldId uint16

// IndexedPosition is the per-schema ordinal assigned to an indexed field,
// packed into every posting record's attribute slot.
type IndexedPosition uint16

// MaxFields bounds FieldId's range. A FieldId is packed as a uint16 into
// the documents-fields and facet keys, so the schema cannot grow past it.
const MaxFields = 1<<16 - 1

// ErrMaxFieldsLimitExceeded is returned by Intern, InsertAndIndex and
// ApplyRankingRules once MaxFields distinct field names have been interned.
// It is the internal/errors sentinel of the same name.
var ErrMaxFieldsLimitExceeded = internalerrors.ErrMaxFieldsLimitExceeded

// Schema interns field names into FieldIds and tracks, per field, whether
// it is indexed (and at which IndexedPosition) and/or ranked. It grows
// monotonically: once a name has a FieldId that FieldId is never reassigned
// or removed.
type Schema struct {
	PrimaryKeyName string
	HasPrimaryKey  bool

	NameToID map[string]FieldId
	IDToName map[FieldId]string
	NextID   FieldId

	IndexedPositions    map[FieldId]IndexedPosition
	NextIndexedPosition IndexedPosition

	RankedFields map[FieldId]bool
	// RankedOrder is the sequence ranked fields were declared in, which the
	// (external) ranker consults in order.
	RankedOrder []FieldId
}

// NewSchema returns an empty schema with no primary key set yet.
func NewSchema() *Schema {
	return &Schema{
		NameToID:         make(map[string]FieldId),
		IDToName:         make(map[FieldId]string),
		IndexedPositions: make(map[FieldId]IndexedPosition),
		RankedFields:     make(map[FieldId]bool),
	}
}

// SetPrimaryKey sets the schema's primary key field name. It is a no-op if
// a primary key is already set, matching spec.md's "created when the first
// document is added (primary key inferred if not preset)" lifecycle: the
// first successful call wins.
func (s *Schema) SetPrimaryKey(name string) {
	if s.HasPrimaryKey {
		return
	}
	s.PrimaryKeyName = name
	s.HasPrimaryKey = true
}

// Intern assigns name a FieldId if it doesn't already have one, without
// marking it indexed. Used for fields the caller sent that are not (yet)
// declared searchable: they are stored and retrievable but not tokenized.
func (s *Schema) Intern(name string) (FieldId, error) {
	return s.intern(name)
}

// FieldID returns the FieldId interned for name, if any.
func (s *Schema) FieldID(name string) (FieldId, bool) {
	id, ok := s.NameToID[name]
	return id, ok
}

// FieldName returns the name interned for id, if any.
func (s *Schema) FieldName(id FieldId) (string, bool) {
	name, ok := s.IDToName[id]
	return name, ok
}

// IsIndexed reports whether id is an indexed field and, if so, its
// IndexedPosition.
func (s *Schema) IsIndexed(id FieldId) (IndexedPosition, bool) {
	pos, ok := s.IndexedPositions[id]
	return pos, ok
}

// IsRanked reports whether id is a ranked field.
func (s *Schema) IsRanked(id FieldId) bool {
	return s.RankedFields[id]
}

// RankedFieldOrder returns the sequence of ranked FieldIds in declaration
// order, for the (external) query-time ranker to consult.
func (s *Schema) RankedFieldOrder() []FieldId {
	out := make([]FieldId, len(s.RankedOrder))
	copy(out, s.RankedOrder)
	return out
}

// intern assigns a new FieldId to name if it doesn't already have one.
func (s *Schema) intern(name string) (FieldId, error) {
	if id, ok := s.NameToID[name]; ok {
		return id, nil
	}
	if int(s.NextID) >= MaxFields {
		return 0, ErrMaxFieldsLimitExceeded
	}
	id := s.NextID
	s.NextID++
	s.NameToID[name] = id
	s.IDToName[id] = name
	return id, nil
}

// InsertAndIndex interns name if it is new to the schema and marks it
// indexed, assigning it the next IndexedPosition. If name is already known,
// its existing FieldId is kept, and it is marked indexed if it was not
// already; an already indexed field keeps its IndexedPosition.
func (s *Schema) InsertAndIndex(name string) (FieldId, error) {
	id, err := s.intern(name)
	if err != nil {
		return 0, err
	}
	if _, alreadyIndexed := s.IndexedPositions[id]; !alreadyIndexed {
		s.IndexedPositions[id] = s.NextIndexedPosition
		s.NextIndexedPosition++
	}
	return id, nil
}

// ApplyRankingRules interns (without indexing) every field named by
// fieldNames and marks it ranked, replacing the previously ranked set.
// Ranking rules may reference fields that are also searchable/indexed; the
// two predicates are independent.
func (s *Schema) ApplyRankingRules(fieldNames []string) error {
	newRanked := make(map[FieldId]bool, len(fieldNames))
	order := make([]FieldId, 0, len(fieldNames))
	for _, name := range fieldNames {
		id, err := s.intern(name)
		if err != nil {
			return err
		}
		newRanked[id] = true
		order = append(order, id)
	}
	s.RankedFields = newRanked
	s.RankedOrder = order
	return nil
}
