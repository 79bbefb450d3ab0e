package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a memory cache created without an explicit limit.
const DefaultMaxEntries = 256

type entry struct {
	key string
	v   []byte
	exp time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// Memory is an in-process TTL cache holding at most max entries.
// The least recently used entry is evicted first.
type Memory struct {
	mu    sync.Mutex
	m     map[string]*list.Element
	order *list.List
	ttl   time.Duration
	max   int
}

// NewMemory creates a memory cache. A non-positive ttl keeps entries until evicted;
// a non-positive maxEntries falls back to DefaultMaxEntries.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		m:     make(map[string]*list.Element),
		order: list.New(),
		ttl:   ttl,
		max:   maxEntries,
	}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	e := el.Value.(*entry)
	if e.expired(time.Now()) {
		c.remove(el)
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	return e.v, true, nil
}

func (c *Memory) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.m[key]; ok {
		e := el.Value.(*entry)
		e.v, e.exp = value, expiry(c.ttl)
		c.order.MoveToFront(el)
		return nil
	}

	c.sweep(time.Now())
	c.m[key] = c.order.PushFront(&entry{key: key, v: value, exp: expiry(c.ttl)})
	for c.order.Len() > c.max {
		c.remove(c.order.Back())
	}
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (c *Memory) sweep(now time.Time) {
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*entry).expired(now) {
			c.remove(el)
		}
		el = prev
	}
}

func (c *Memory) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.m, el.Value.(*entry).key)
}

// Len reports the number of stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Memory) Close() error {
	c.mu.Lock()
	c.m = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
	return nil
}
