package codec

import (
	"bytes"
	"encoding/gob"

	internalerrors "github.com/gcbaptista/searchcore/internal/errors"
)

// EncodeStructured gob-encodes any registered value (Schema, RankedMap,
// RankingRules, FieldsFrequency, ...) for storage in the main space. gob
// matches struct fields by name, so values stored before a field was added
// or removed still decode; a renamed field's stored value is dropped.
func EncodeStructured(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, internalerrors.NewSerializationError("structured encode", err)
	}
	return buf.Bytes(), nil
}

// DecodeStructured gob-decodes buf into v, which must be a pointer.
func DecodeStructured(buf []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(v); err != nil {
		return internalerrors.NewSerializationError("structured decode", err)
	}
	return nil
}
