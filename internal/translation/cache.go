package translation

import (
	"codeberg.org/snonux/rstedit/internal"
)

// Cache stores rendered output keyed by the digest of the source text.
// A stored value is never replaced. Cache is not safe for concurrent use;
// it lives on the UI goroutine.
type Cache struct {
	outputs map[internal.Digest]string
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		outputs: make(map[internal.Digest]string),
	}
}

// Add stores output for key unless the key is already present
func (c *Cache) Add(key internal.Digest, output string) {
	if _, ok := c.outputs[key]; ok {
		return
	}
	c.outputs[key] = output
}

// Get retrieves output for key
func (c *Cache) Get(key internal.Digest) (string, bool) {
	output, ok := c.outputs[key]
	return output, ok
}

// Len returns the number of cached outputs
func (c *Cache) Len() int {
	return len(c.outputs)
}

// Clear removes every entry
func (c *Cache) Clear() {
	clear(c.outputs)
}
