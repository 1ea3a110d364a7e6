package codec

import (
	"encoding/binary"

	"github.com/gcbaptista/searchcore/model"
)

// PostingRecordLen is the fixed on-disk width of a posting record:
// u64 document_id | u16 attribute | u16 word_index | u8 is_exact
// (spec.md §6's external byte-exact contract).
const PostingRecordLen = 8 + 2 + 2 + 1

// EncodePostingRecord packs a single PostingRecord into its 13-byte layout.
func EncodePostingRecord(r model.PostingRecord) []byte {
	buf := make([]byte, PostingRecordLen)
	EncodePostingRecordInto(buf, r)
	return buf
}

// EncodePostingRecordInto writes r into buf[:PostingRecordLen] without
// allocating, for callers building a run of records in one buffer.
func EncodePostingRecordInto(buf []byte, r model.PostingRecord) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(r.DocumentID))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(r.Attribute))
	binary.LittleEndian.PutUint16(buf[10:12], r.WordIndex)
	if r.IsExact {
		buf[12] = 1
	} else {
		buf[12] = 0
	}
}

// DecodePostingRecord unpacks a single 13-byte posting record.
func DecodePostingRecord(buf []byte) model.PostingRecord {
	return model.PostingRecord{
		DocumentID: model.DocumentId(binary.LittleEndian.Uint64(buf[0:8])),
		Attribute:  model.IndexedPosition(binary.LittleEndian.Uint16(buf[8:10])),
		WordIndex:  binary.LittleEndian.Uint16(buf[10:12]),
		IsExact:    buf[12] != 0,
	}
}

// EncodePostingRecords packs a run of records, sorted by (DocumentID,
// Attribute, WordIndex, IsExact) per PostingRecord.Less. Callers must pass
// records already sorted; this function does not sort defensively.
func EncodePostingRecords(records []model.PostingRecord) []byte {
	buf := make([]byte, len(records)*PostingRecordLen)
	for i, r := range records {
		EncodePostingRecordInto(buf[i*PostingRecordLen:], r)
	}
	return buf
}

// DecodePostingRecords unpacks a contiguous run of posting records.
func DecodePostingRecords(buf []byte) []model.PostingRecord {
	n := len(buf) / PostingRecordLen
	records := make([]model.PostingRecord, n)
	for i := 0; i < n; i++ {
		records[i] = DecodePostingRecord(buf[i*PostingRecordLen:])
	}
	return records
}

// PostingRecordCount returns how many records are packed into buf.
func PostingRecordCount(buf []byte) int { return len(buf) / PostingRecordLen }
