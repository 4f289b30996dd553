package storage

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// DefaultFlushThreshold is the number of buffered writes after which
// WriteCache flushes to the underlying storage.
const DefaultFlushThreshold = 1000

// WriteCache wraps a Storage and batches writes: reads are served from a
// cached state and writes only reach the underlying storage every
// threshold-th write, on Flush, or on Close. Use it to cut serialization
// cost for write-heavy workloads at the price of durability between
// flushes.
type WriteCache struct {
	storage   types.Storage
	threshold int

	state    types.State
	cached   bool
	modified int
}

// NewWriteCache wraps storage with a write cache. threshold <= 0 uses
// DefaultFlushThreshold.
func NewWriteCache(storage types.Storage, threshold int) *WriteCache {
	if threshold <= 0 {
		threshold = DefaultFlushThreshold
	}
	return &WriteCache{storage: storage, threshold: threshold}
}

// Read returns the cached state, loading it from the underlying storage
// on first use. The returned state is a copy.
func (c *WriteCache) Read() (types.State, error) {
	if !c.cached {
		state, err := c.storage.Read()
		if err != nil {
			return nil, err
		}
		c.state = state
		c.cached = true
	}
	if c.state == nil {
		return nil, nil
	}
	return c.state.Clone(), nil
}

// Write stores the state in the cache and flushes to the underlying
// storage once the threshold is reached.
func (c *WriteCache) Write(state types.State) error {
	c.state = state
	c.cached = true
	c.modified++
	if c.modified >= c.threshold {
		return c.Flush()
	}
	return nil
}

// Flush writes any buffered state to the underlying storage.
func (c *WriteCache) Flush() error {
	if c.modified == 0 {
		return nil
	}
	if err := c.storage.Write(c.state); err != nil {
		return fmt.Errorf("flushing write cache: %w", err)
	}
	c.modified = 0
	return nil
}

// Close flushes buffered writes and closes the underlying storage when it
// holds resources.
func (c *WriteCache) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	if closer, ok := c.storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
