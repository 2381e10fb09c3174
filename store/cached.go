package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Cached wraps a Store with an in-memory read-through/write-through
// mirror. The mirror has no independent authority: it is refreshed on
// every successful read, overwritten on every successful write, and served
// only when the primary store is unreachable on a read. Write failures are
// never papered over.
type Cached struct {
	primary Store

	mu     sync.RWMutex
	mirror map[string]json.RawMessage
}

func WithCache(primary Store) *Cached {
	return &Cached{
		primary: primary,
		mirror:  make(map[string]json.RawMessage),
	}
}

func (c *Cached) Get(ctx context.Context, key string) (json.RawMessage, error) {
	value, err := c.primary.Get(ctx, key)
	if err != nil {
		c.mu.RLock()
		cached, ok := c.mirror[key]
		c.mu.RUnlock()
		if ok {
			return cloneRaw(cached), nil
		}
		return nil, err
	}

	c.mu.Lock()
	if value == nil {
		// An authoritative miss invalidates the mirror too.
		delete(c.mirror, key)
	} else {
		c.mirror[key] = cloneRaw(value)
	}
	c.mu.Unlock()

	return value, nil
}

func (c *Cached) Set(ctx context.Context, key string, value json.RawMessage, meta Metadata) error {
	err := c.primary.Set(ctx, key, value, meta)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.mirror[key] = cloneRaw(value)
	c.mu.Unlock()
	return nil
}

func cloneRaw(value json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out
}
