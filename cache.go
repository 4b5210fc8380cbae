package hashlife

import (
	"log"
	"sync"
)

// DefaultCacheCompactionThreshold is the cache-size cutoff: once the
// inner-node map grows past this many entries, the whole cache is reset
// rather than evicting individual nodes. A reset invalidates the
// Universe's result cache along with it (both share the same lifetime),
// so no result-cache entry can ever outlive the node that produced it.
const DefaultCacheCompactionThreshold = 13_000_000

// CacheStats reports the size and hit/miss counters of a NodeCache.
type CacheStats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// NodeCache is the hash-consing factory for Nodes. It owns the two
// canonical leaves and a map from child identity to canonical inner node.
// A NodeCache is not safe for concurrent use by multiple Universes; each
// Universe constructs and owns its own NodeCache.
type NodeCache struct {
	mu sync.Mutex

	leaves [2]*Node
	inner  map[childKey]*Node
	empty  map[uint]*Node

	hits, misses uint64

	compactionThreshold int

	// onCompact, if set, is invoked synchronously whenever the cache
	// compacts, after inner/empty are cleared but before mu is released.
	// The Universe that owns this cache uses it to discard its result
	// cache in the same instant, so no result-cache entry can ever
	// outlive the (now evicted) node it was memoized from.
	onCompact func()
}

// NewNodeCache creates a cache with its two canonical leaves already
// allocated. A compactionThreshold <= 0 uses DefaultCacheCompactionThreshold.
func NewNodeCache(compactionThreshold int) *NodeCache {
	if compactionThreshold <= 0 {
		compactionThreshold = DefaultCacheCompactionThreshold
	}
	return &NodeCache{
		leaves: [2]*Node{
			{Level: 0, Population: 0, alive: false},
			{Level: 0, Population: 1, alive: true},
		},
		inner:               make(map[childKey]*Node),
		empty:               make(map[uint]*Node),
		compactionThreshold: compactionThreshold,
	}
}

// GetLeaf returns one of the two pre-allocated canonical leaves. O(1), never
// fails.
func (c *NodeCache) GetLeaf(alive bool) *Node {
	if alive {
		return c.leaves[1]
	}
	return c.leaves[0]
}

// GetInner returns the canonical inner node with the given four children,
// creating and caching it if it does not already exist. It fails with
// ErrPreconditionViolated if the four children do not share a level.
func (c *NodeCache) GetInner(nw, ne, sw, se *Node) (*Node, error) {
	if nw.Level != ne.Level || nw.Level != sw.Level || nw.Level != se.Level {
		return nil, ErrPreconditionViolated
	}

	key := childKey{nw, ne, sw, se}

	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.inner[key]; ok {
		c.hits++
		return node, nil
	}
	c.misses++

	node := &Node{
		Level:      nw.Level + 1,
		Population: nw.Population + ne.Population + sw.Population + se.Population,
		NW:         nw,
		NE:         ne,
		SW:         sw,
		SE:         se,
	}
	c.inner[key] = node

	c.maybeCompactLocked()

	return node, nil
}

// GetEmpty returns the canonical all-dead node at the given level:
// empty(0) is the dead leaf, empty(k) is the inner node with four copies of
// empty(k-1). Results are memoized per level.
func (c *NodeCache) GetEmpty(level uint) *Node {
	if level == 0 {
		return c.GetLeaf(false)
	}

	c.mu.Lock()
	if node, ok := c.empty[level]; ok {
		c.mu.Unlock()
		return node
	}
	c.mu.Unlock()

	sub := c.GetEmpty(level - 1)
	// GetEmpty never fails its own GetInner call: sub always equals itself
	// on all four corners, so the level-mismatch precondition can't trip.
	node, _ := c.GetInner(sub, sub, sub, sub)

	c.mu.Lock()
	c.empty[level] = node
	c.mu.Unlock()

	return node
}

// SetCompactionHook registers fn to run every time the cache compacts, once
// inner/empty have already been cleared. Replaces any previously registered
// hook. Used by Universe to discard its result cache in lockstep with the
// node cache it is keyed against.
func (c *NodeCache) SetCompactionHook(fn func()) {
	c.mu.Lock()
	c.onCompact = fn
	c.mu.Unlock()
}

// Stats returns the current cache size and lifetime hit/miss counters.
func (c *NodeCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Size:   len(c.inner),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// maybeCompactLocked resets the inner-node map once it passes the
// configured threshold. Must be called with c.mu held.
func (c *NodeCache) maybeCompactLocked() {
	if len(c.inner) <= c.compactionThreshold {
		return
	}
	log.Println("hashlife: node cache compacted, entries:", len(c.inner))
	c.inner = make(map[childKey]*Node)
	c.empty = make(map[uint]*Node)
	if c.onCompact != nil {
		c.onCompact()
	}
}
