package model

// RankedMapKey identifies a single (document, ranked field) cell.
type RankedMapKey struct {
	DocumentID DocumentId
	FieldID    FieldId
}

// RankedMap is the sparse (DocumentId, FieldId) -> Number map spec.md's
// glossary describes, consumed at query time by the (external) ranker.
type RankedMap struct {
	Entries map[RankedMapKey]float64
}

// NewRankedMap returns an empty RankedMap.
func NewRankedMap() *RankedMap {
	return &RankedMap{Entries: make(map[RankedMapKey]float64)}
}

// Insert sets the ranked value for (doc, field).
func (m *RankedMap) Insert(doc DocumentId, field FieldId, value float64) {
	m.Entries[RankedMapKey{DocumentID: doc, FieldID: field}] = value
}

// Get returns the ranked value for (doc, field), if present.
func (m *RankedMap) Get(doc DocumentId, field FieldId) (float64, bool) {
	v, ok := m.Entries[RankedMapKey{DocumentID: doc, FieldID: field}]
	return v, ok
}

// RemoveDocument deletes every entry for doc across the given candidate
// field set (the schema's ranked fields) — invariant 6 (spec.md §3)
// requires ranked-map entries to only exist for documents still present in
// internal_ids, so deletion must prune them eagerly.
func (m *RankedMap) RemoveDocument(doc DocumentId, rankedFields []FieldId) {
	for _, f := range rankedFields {
		delete(m.Entries, RankedMapKey{DocumentID: doc, FieldID: f})
	}
}
