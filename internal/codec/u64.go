// Package codec implements the bit-level encodings spec.md §4.1 requires:
// fixed little-endian integers, contiguous sorted-id runs, big-endian
// composite keys, 13-byte posting records, and gob-based structured
// values. FST bytes are stored as they are, without a codec. Every sub-store builds on these so the on-disk layout is
// bit-exact and stable across versions (spec.md §6).
package codec

import "encoding/binary"

// U64Len is the fixed width of an encoded uint64.
const U64Len = 8

// EncodeU64 encodes v as 8 little-endian bytes.
func EncodeU64(v uint64) []byte {
	buf := make([]byte, U64Len)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// DecodeU64 decodes 8 little-endian bytes into a uint64.
func DecodeU64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
