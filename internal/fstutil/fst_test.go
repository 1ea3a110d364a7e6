package fstutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndGet(t *testing.T) {
	data, err := Build([]Entry{
		{Term: []byte("zebra"), Value: 2},
		{Term: []byte("apple"), Value: 1},
	})
	require.NoError(t, err)

	val, found, err := Get(data, []byte("apple"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(1), val)

	_, found, err = Get(data, []byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTermsReturnsAscending(t *testing.T) {
	data, err := Build([]Entry{
		{Term: []byte("zebra"), Value: 2},
		{Term: []byte("apple"), Value: 1},
		{Term: []byte("mango"), Value: 3},
	})
	require.NoError(t, err)

	entries, err := Terms(data)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "apple", string(entries[0].Term))
	assert.Equal(t, "mango", string(entries[1].Term))
	assert.Equal(t, "zebra", string(entries[2].Term))
}

func TestUnionPrefersNewValue(t *testing.T) {
	a, err := Build([]Entry{{Term: []byte("apple"), Value: 1}, {Term: []byte("pear"), Value: 5}})
	require.NoError(t, err)
	b, err := Build([]Entry{{Term: []byte("apple"), Value: 9}, {Term: []byte("mango"), Value: 3}})
	require.NoError(t, err)

	merged, err := Union(a, b)
	require.NoError(t, err)

	entries, err := Terms(merged)
	require.NoError(t, err)
	byTerm := map[string]uint64{}
	for _, e := range entries {
		byTerm[string(e.Term)] = e.Value
	}
	assert.Equal(t, uint64(9), byTerm["apple"])
	assert.Equal(t, uint64(5), byTerm["pear"])
	assert.Equal(t, uint64(3), byTerm["mango"])
}

func TestDifference(t *testing.T) {
	a, err := Build([]Entry{
		{Term: []byte("apple"), Value: 1},
		{Term: []byte("mango"), Value: 2},
		{Term: []byte("pear"), Value: 3},
	})
	require.NoError(t, err)
	b, err := Build([]Entry{{Term: []byte("mango"), Value: 2}})
	require.NoError(t, err)

	diff, err := Difference(a, b)
	require.NoError(t, err)

	entries, err := Terms(diff)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "apple", string(entries[0].Term))
	assert.Equal(t, "pear", string(entries[1].Term))
}
