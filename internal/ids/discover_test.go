package ids

import (
	"testing"

	"github.com/gcbaptista/searchcore/model"
	"github.com/stretchr/testify/assert"
)

func TestDiscovererSkipsLiveIds(t *testing.T) {
	d := NewDiscoverer([]model.DocumentId{0, 1, 3})

	assert.Equal(t, model.DocumentId(2), d.Next())
	assert.Equal(t, model.DocumentId(4), d.Next())
	assert.Equal(t, model.DocumentId(5), d.Next())
}

func TestDiscovererEmptyLiveSet(t *testing.T) {
	d := NewDiscoverer(nil)

	assert.Equal(t, model.DocumentId(0), d.Next())
	assert.Equal(t, model.DocumentId(1), d.Next())
}

func TestDiscovererReusesGapAfterDeletion(t *testing.T) {
	// S3/S4 scenario: doc 0 deleted, live set is now just {1}.
	d := NewDiscoverer([]model.DocumentId{1})
	assert.Equal(t, model.DocumentId(0), d.Next())
	assert.Equal(t, model.DocumentId(2), d.Next())
}

func TestDiscovererConsecutiveLiveIds(t *testing.T) {
	d := NewDiscoverer([]model.DocumentId{0, 1, 2, 3})
	assert.Equal(t, model.DocumentId(4), d.Next())
	assert.Equal(t, model.DocumentId(5), d.Next())
}
