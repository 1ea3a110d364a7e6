// Package model defines the data types shared by every indexing sub-store:
// the caller-facing Document, the interned Schema/FieldId pair, and the
// on-disk posting/ranked-map records.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/elliotchance/orderedmap"

	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
)

// PrimaryKeyField is the document key the schema's primary key is read from
// before a FieldId has been interned for it.
const PrimaryKeyField = "documentID"

// Document is a key-insertion-order preserving string -> value mapping, as
// spec.md's addition pipeline requires: documents collapsed within a batch
// keep "last write wins per field" semantics, which only matters for
// deterministic re-serialization at partial-merge time.
type Document struct {
	om *orderedmap.OrderedMap
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{om: orderedmap.NewOrderedMap()}
}

// DocumentFromMap builds a Document from an unordered map. Key order in the
// result is unspecified (Go map iteration order).
func DocumentFromMap(m map[string]interface{}) *Document {
	d := NewDocument()
	for k, v := range m {
		d.Set(k, v)
	}
	return d
}

// Set inserts or overwrites a field. Overwriting an existing key keeps its
// original position, per the orderedmap library's documented Set semantics.
func (d *Document) Set(key string, value interface{}) {
	d.om.Set(key, value)
}

// Get returns a field's value.
func (d *Document) Get(key string) (interface{}, bool) {
	return d.om.Get(key)
}

// Delete removes a field.
func (d *Document) Delete(key string) {
	d.om.Delete(key)
}

// Keys returns field names in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, 0, d.om.Len())
	for el := d.om.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key.(string))
	}
	return out
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return d.om.Len()
}

// Clone returns a shallow copy (field values are not deep-copied).
func (d *Document) Clone() *Document {
	out := NewDocument()
	for el := d.om.Front(); el != nil; el = el.Next() {
		out.Set(el.Key.(string), el.Value)
	}
	return out
}

// GetUserID returns the caller-supplied identifier stored under
// PrimaryKeyField, the conventional default primary key name used when a
// schema has not yet inferred one from the caller's own field names.
func (d *Document) GetUserID() (string, bool) {
	v, err := d.FieldAsUserID(PrimaryKeyField)
	return v, err == nil
}

// FieldAsUserID extracts field's value as a UserId string, coercing
// string/numeric values and rejecting anything else (spec.md §4.4 step 2:
// "reject if missing or non-string/non-integer-convertible"). The error
// distinguishes a field that was never set or is an empty string (errors.Is
// ErrMissingDocumentId)
// from one set to an unusable value (errors.Is ErrInvalidDocumentIdFormat),
// so callers can report which of the two actually happened.
func (d *Document) FieldAsUserID(field string) (string, error) {
	v, ok := d.Get(field)
	if !ok {
		return "", internalerrors.ErrMissingDocumentId
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", internalerrors.ErrMissingDocumentId
		}
		return t, nil
	case float64:
		return fmt.Sprintf("%v", t), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", internalerrors.NewInvalidDocumentIdError(fmt.Sprintf("%T", v))
	}
}

// MarshalJSON re-serializes the document preserving field order, so that a
// document round-tripped through partial-merge + persistence and back out
// is byte-identical to one freshly decoded in the same field order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for el := d.om.Front(); el != nil; el = el.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyBytes, err := json.Marshal(el.Key)
		if err != nil {
			return nil, err
		}
		valBytes, err := json.Marshal(el.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", el.Key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalDocumentJSON decodes a JSON object into a Document, preserving the
// order fields appeared on the wire.
func UnmarshalDocumentJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	doc := NewDocument()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode field %q: %w", key, err)
		}
		var value interface{}
		valueDec := json.NewDecoder(bytes.NewReader(raw))
		valueDec.UseNumber()
		if err := valueDec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode field %q value: %w", key, err)
		}
		doc.Set(key, normalizeJSONNumber(value))
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return doc, nil
}

// normalizeJSONNumber converts json.Number leaves (and those nested in
// slices) to float64, matching encoding/json's default unmarshal-into-
// interface{} behavior everywhere else in the codebase.
func normalizeJSONNumber(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = normalizeJSONNumber(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = normalizeJSONNumber(item)
		}
		return out
	default:
		return v
	}
}
