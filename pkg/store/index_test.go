package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSetGetRemove(t *testing.T) {
	idx := newIndex()

	_, ok := idx.get("k")
	assert.False(t, ok)

	prev, had := idx.set("k", location{gen: 1, pos: 0, len: 10})
	assert.False(t, had)
	assert.Zero(t, prev)
	assert.Equal(t, 1, idx.size())

	loc, ok := idx.get("k")
	assert.True(t, ok)
	assert.Equal(t, generation(1), loc.gen)

	prev, had = idx.set("k", location{gen: 2, pos: 50, len: 20})
	assert.True(t, had)
	assert.Equal(t, generation(1), prev.gen)

	prev, had = idx.remove("k")
	assert.True(t, had)
	assert.Equal(t, generation(2), prev.gen)
	assert.Equal(t, 0, idx.size())

	_, had = idx.remove("k")
	assert.False(t, had)
}

func TestIndexForEach(t *testing.T) {
	idx := newIndex()
	idx.set("a", location{gen: 1, pos: 0, len: 1})
	idx.set("b", location{gen: 1, pos: 1, len: 1})

	seen := map[string]location{}
	idx.forEach(func(key string, loc location) {
		seen[key] = loc
	})

	assert.Len(t, seen, 2)
	assert.Contains(t, seen, "a")
	assert.Contains(t, seen, "b")
}
