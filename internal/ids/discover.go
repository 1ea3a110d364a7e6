// Package ids implements the DiscoverIds allocator: a stateful cursor that
// yields fresh DocumentIds from the complement of a sorted live-id set,
// one pass, never revisiting an id (spec.md §4.6).
package ids

import "github.com/gcbaptista/searchcore/model"

// Discoverer yields ascending ids not present in the live set it was
// seeded with. It is stateful and single-threaded: each call to Next
// advances an internal cursor and must not be called concurrently.
type Discoverer struct {
	live   []model.DocumentId
	cursor model.DocumentId
	pos    int
}

// NewDiscoverer seeds a Discoverer with a sorted, ascending, deduplicated
// set of live DocumentIds.
func NewDiscoverer(live []model.DocumentId) *Discoverer {
	return &Discoverer{live: live}
}

// Next returns the next free DocumentId, skipping over every id present in
// the live set.
func (d *Discoverer) Next() model.DocumentId {
	for d.pos < len(d.live) && d.live[d.pos] == d.cursor {
		d.cursor++
		d.pos++
	}
	id := d.cursor
	d.cursor++
	return id
}
