package client

import (
	"strings"
	"sync"
)

// Collection is the in-memory snapshot a page renders from: a keyed mapping
// from id to record that preserves fetch order. It is loaded once per page
// and then patched only on confirmed mutations -- there is no background
// refresh, so server-side changes made elsewhere stay invisible until the
// next Reset.
type Collection[T any] struct {
	mu      sync.RWMutex
	byID    map[string]T
	order   []string
	id      func(T) string
	display func(T) string
}

// NewCollection builds an empty collection. id extracts the record key,
// display the single field substring search runs over.
func NewCollection[T any](id, display func(T) string) *Collection[T] {
	return &Collection[T]{
		byID:    make(map[string]T),
		id:      id,
		display: display,
	}
}

// Reset replaces the whole snapshot with a fresh fetch result.
func (c *Collection[T]) Reset(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byID = make(map[string]T, len(items))
	c.order = c.order[:0]
	for _, item := range items {
		key := c.id(item)
		if _, seen := c.byID[key]; !seen {
			c.order = append(c.order, key)
		}
		c.byID[key] = item
	}
}

// Put records a confirmed create or update. New ids append to the order,
// existing ids keep their position.
func (c *Collection[T]) Put(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.id(item)
	if _, seen := c.byID[key]; !seen {
		c.order = append(c.order, key)
	}
	c.byID[key] = item
}

// Remove records a confirmed delete.
func (c *Collection[T]) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	for i, key := range c.order {
		if key == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.byID[id]
	return item, ok
}

func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]T, 0, len(c.order))
	for _, key := range c.order {
		items = append(items, c.byID[key])
	}
	return items
}

// Search returns the records whose display field contains the query,
// case-insensitively. An empty query returns everything.
func (c *Collection[T]) Search(query string) []T {
	query = strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]T, 0, len(c.order))
	for _, key := range c.order {
		item := c.byID[key]
		if query == "" || strings.Contains(strings.ToLower(c.display(item)), query) {
			items = append(items, item)
		}
	}
	return items
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
