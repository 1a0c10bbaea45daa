// Package sync implements the optimistic mutation flow between the
// cached per-user task collection and the persistence gateway: apply
// locally, issue the write, roll back on failure, then invalidate so
// the next read refetches authoritative state.
package sync

import (
	"sync"

	"taskdeck/internal/db/models"
)

// Cache holds the client-side task collection, partitioned by scope
// (the owning user id). It is a best-effort mirror of the store with a
// shorter lifetime; Invalidate marks a scope stale without dropping the
// data, so optimistic state keeps serving until the next read.
type Cache struct {
	mu     sync.Mutex
	scopes map[string]*scopeEntry
	subs   map[string]map[int]chan struct{}
	nextID int
}

type scopeEntry struct {
	tasks []models.Task
	fresh bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		scopes: make(map[string]*scopeEntry),
		subs:   make(map[string]map[int]chan struct{}),
	}
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the cached collection for scope and whether it
// is fresh. Stale data is still returned so callers can serve
// optimistic state while a refetch is pending.
func (c *Cache) Get(scope string) ([]models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.scopes[scope]
	if !ok {
		return nil, false
	}
	return cloneTasks(entry.tasks), entry.fresh
}

// Snapshot captures the current collection for scope as a rollback
// point. The returned slice is independent of later cache writes.
func (c *Cache) Snapshot(scope string) []models.Task {
	tasks, _ := c.Get(scope)
	return tasks
}

// Replace installs an authoritative collection for scope and marks it
// fresh.
func (c *Cache) Replace(scope string, tasks []models.Task) {
	c.set(scope, tasks, true)
}

// Apply installs an optimistic collection for scope. The scope stays
// fresh so reads see the optimistic state until it is invalidated.
func (c *Cache) Apply(scope string, tasks []models.Task) {
	c.set(scope, tasks, true)
}

// Restore puts back a snapshot taken before an optimistic apply.
func (c *Cache) Restore(scope string, snapshot []models.Task) {
	c.set(scope, snapshot, true)
}

func (c *Cache) set(scope string, tasks []models.Task, fresh bool) {
	c.mu.Lock()
	c.scopes[scope] = &scopeEntry{tasks: cloneTasks(tasks), fresh: fresh}
	c.notifyLocked(scope)
	c.mu.Unlock()
}

// Invalidate marks a scope stale so the next read refetches from the
// gateway. Existing data is kept for serving in the meantime.
func (c *Cache) Invalidate(scope string) {
	c.mu.Lock()
	if entry, ok := c.scopes[scope]; ok {
		entry.fresh = false
	}
	c.notifyLocked(scope)
	c.mu.Unlock()
}

// Subscribe returns a channel that receives a tick whenever the scope
// changes (replace, optimistic apply, rollback or invalidation), plus a
// cancel function. The channel is never closed by the cache.
func (c *Cache) Subscribe(scope string) (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	ch := make(chan struct{}, 1)
	if c.subs[scope] == nil {
		c.subs[scope] = make(map[int]chan struct{})
	}
	c.subs[scope][id] = ch

	cancel := func() {
		c.mu.Lock()
		delete(c.subs[scope], id)
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Cache) notifyLocked(scope string) {
	for _, ch := range c.subs[scope] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
