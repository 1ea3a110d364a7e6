package codec

import (
	"encoding/binary"

	"github.com/gcbaptista/searchcore/model"
)

// EncodeDocField packs (doc, field) as a big-endian composite key so that
// lexicographic KV order matches logical (doc, field) order and a prefix
// scan by DocumentId is contiguous (spec.md §4.1).
func EncodeDocField(doc model.DocumentId, field model.FieldId) []byte {
	buf := make([]byte, 8+2)
	binary.BigEndian.PutUint64(buf, uint64(doc))
	binary.BigEndian.PutUint16(buf[8:], uint16(field))
	return buf
}

// DecodeDocField unpacks a key built by EncodeDocField.
func DecodeDocField(key []byte) (model.DocumentId, model.FieldId) {
	doc := model.DocumentId(binary.BigEndian.Uint64(key[:8]))
	field := model.FieldId(binary.BigEndian.Uint16(key[8:10]))
	return doc, field
}

// EncodeDocPrefix returns the big-endian prefix identifying every
// EncodeDocField key belonging to doc, for prefix scans (e.g. deleting all
// of a document's fields).
func EncodeDocPrefix(doc model.DocumentId) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(doc))
	return buf
}

// EncodeFacetKey packs (field, valueHash) as a big-endian composite key for
// the facets store (spec.md glossary: "(FieldId, value-hash) -> sorted set
// of DocumentId").
func EncodeFacetKey(field model.FieldId, valueHash uint64) []byte {
	buf := make([]byte, 2+8)
	binary.BigEndian.PutUint16(buf, uint16(field))
	binary.BigEndian.PutUint64(buf[2:], valueHash)
	return buf
}

// EncodeFacetFieldPrefix returns the prefix identifying every facet key for
// field, for scanning all values of one faceted attribute.
func EncodeFacetFieldPrefix(field model.FieldId) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(field))
	return buf
}
