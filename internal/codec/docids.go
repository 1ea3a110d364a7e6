package codec

import (
	"encoding/binary"
	"sort"

	"github.com/gcbaptista/searchcore/model"
)

// EncodeDocumentIds packs a sorted, strictly ascending set of DocumentIds
// into a contiguous little-endian u64 run (spec.md §4.1's "DocumentsIds"
// codec). Callers must pass ids already sorted and de-duplicated; this
// function does not sort defensively so that zero-copy encode callers
// building from an already-sorted structure pay no extra cost.
func EncodeDocumentIds(ids []model.DocumentId) []byte {
	buf := make([]byte, len(ids)*U64Len)
	for i, id := range ids {
		binary.LittleEndian.PutUint64(buf[i*U64Len:], uint64(id))
	}
	return buf
}

// DecodeDocumentIds reads a contiguous little-endian u64 run back into a
// DocumentId slice. The returned slice is a fresh copy; it does not borrow
// buf (callers needing a zero-copy view over a transaction snapshot should
// read buf directly with DocumentIdAt/DocumentIdsLen instead).
func DecodeDocumentIds(buf []byte) []model.DocumentId {
	n := len(buf) / U64Len
	ids := make([]model.DocumentId, n)
	for i := 0; i < n; i++ {
		ids[i] = model.DocumentId(binary.LittleEndian.Uint64(buf[i*U64Len:]))
	}
	return ids
}

// DocumentIdsLen returns how many ids are packed into buf.
func DocumentIdsLen(buf []byte) int { return len(buf) / U64Len }

// DocumentIdAt reads the i-th id directly out of buf without decoding the
// whole run, for zero-copy membership checks over a transaction snapshot.
func DocumentIdAt(buf []byte, i int) model.DocumentId {
	return model.DocumentId(binary.LittleEndian.Uint64(buf[i*U64Len:]))
}

// SortDocumentIds sorts ids ascending in place.
func SortDocumentIds(ids []model.DocumentId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// UnionDocumentIds returns the sorted union of two ascending, deduplicated
// id sets, materializing a fresh slice (spec.md §4.7: "all merges
// materialize into fresh buffers").
func UnionDocumentIds(a, b []model.DocumentId) []model.DocumentId {
	out := make([]model.DocumentId, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// DifferenceDocumentIds returns the sorted set a minus b (both ascending,
// deduplicated), materializing a fresh slice.
func DifferenceDocumentIds(a, b []model.DocumentId) []model.DocumentId {
	out := make([]model.DocumentId, 0, len(a))
	i, j := 0, 0
	for i < len(a) {
		if j >= len(b) || a[i] < b[j] {
			out = append(out, a[i])
			i++
			continue
		}
		if a[i] > b[j] {
			j++
			continue
		}
		// a[i] == b[j]: drop it
		i++
		j++
	}
	return out
}

// ContainsDocumentId reports whether the sorted id set contains id, via
// binary search.
func ContainsDocumentId(ids []model.DocumentId, id model.DocumentId) bool {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	return i < len(ids) && ids[i] == id
}
