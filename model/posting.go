package model

// DocumentId is a dense, reusable 64-bit internal document identifier.
type DocumentId uint64

// PostingRecord is a single occurrence of a word in a document: the field
// it occurred in (by IndexedPosition, packed as the "attribute" per
// spec.md §6), its ordinal position among the tokens produced for that
// field, and whether the occurrence was an exact (non-prefix) match.
//
// The on-disk layout is an external contract (spec.md §6): 13 bytes,
// little-endian, `u64 document_id | u16 attribute | u16 word_index | u8
// is_exact`. See internal/codec for the byte-level encoder.
type PostingRecord struct {
	DocumentID DocumentId
	Attribute  IndexedPosition
	WordIndex  uint16
	IsExact    bool
}

// Less orders records by document id, then attribute, then word index,
// then exact-match flag — the sort order posting lists are required to be
// stored in (spec.md §4.3: "records sorted by all fields").
func (r PostingRecord) Less(other PostingRecord) bool {
	if r.DocumentID != other.DocumentID {
		return r.DocumentID < other.DocumentID
	}
	if r.Attribute != other.Attribute {
		return r.Attribute < other.Attribute
	}
	if r.WordIndex != other.WordIndex {
		return r.WordIndex < other.WordIndex
	}
	return !r.IsExact && other.IsExact
}

// Equal reports whether every field of r and other matches.
func (r PostingRecord) Equal(other PostingRecord) bool {
	return r == other
}
