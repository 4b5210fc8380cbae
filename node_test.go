package hashlife

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeIsLeaf(t *testing.T) {
	cache := NewNodeCache(0)
	leaf := cache.GetLeaf(true)
	assert.True(t, leaf.IsLeaf())

	empty := cache.GetEmpty(1)
	assert.False(t, empty.IsLeaf())
}

func TestNodeAlive(t *testing.T) {
	cache := NewNodeCache(0)
	assert.True(t, cache.GetLeaf(true).Alive())
	assert.False(t, cache.GetLeaf(false).Alive())

	inner := cache.GetEmpty(1)
	assert.False(t, inner.Alive(), "Alive is only meaningful on leaves")
}

func TestNodeStringDistinguishesLeafAndInner(t *testing.T) {
	cache := NewNodeCache(0)
	assert.Equal(t, "Leaf(alive)", cache.GetLeaf(true).String())
	assert.Equal(t, "Leaf(dead)", cache.GetLeaf(false).String())

	inner, err := cache.GetInner(cache.GetLeaf(true), cache.GetLeaf(false), cache.GetLeaf(false), cache.GetLeaf(false))
	assert.NoError(t, err)
	assert.Contains(t, inner.String(), "Inner(level=1")
}
