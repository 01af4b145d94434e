package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id   string
	name string
}

func newItems() *Collection[item] {
	return NewCollection(
		func(i item) string { return i.id },
		func(i item) string { return i.name },
	)
}

func TestCollectionSearch(t *testing.T) {
	c := newItems()
	c.Reset([]item{
		{"1", "Mary"},
		{"2", "Omar"},
		{"3", "Maram"},
	})

	assert.Len(t, c.Search(""), 3)

	got := c.Search("mar")
	require.Len(t, got, 3) // Mary, Omar, Maram all contain "mar" case-insensitively

	got = c.Search("MARY")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].id)

	assert.Empty(t, c.Search("zz"))
}

func TestCollectionPatchOnSuccess(t *testing.T) {
	c := newItems()
	c.Reset([]item{{"1", "Mary"}, {"2", "Omar"}})

	// updating an existing id keeps its position
	c.Put(item{"1", "Marianne"})
	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Marianne", all[0].name)

	// a new id appends
	c.Put(item{"3", "Sara"})
	all = c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[2].id)

	c.Remove("2")
	all = c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].id)
	assert.Equal(t, "3", all[1].id)

	// removing an unknown id is a no-op
	c.Remove("99")
	assert.Equal(t, 2, c.Len())
}

func TestCollectionResetReplacesSnapshot(t *testing.T) {
	c := newItems()
	c.Reset([]item{{"1", "Mary"}})
	c.Put(item{"2", "Omar"})

	c.Reset([]item{{"3", "Sara"}})
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "3", all[0].id)

	_, ok := c.Get("1")
	assert.False(t, ok)
}
