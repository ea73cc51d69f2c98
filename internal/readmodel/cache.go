package readmodel

import (
	"fmt"
	"sync"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/slug"
)

// Cache is a mutex-guarded id→record map. It is the single source of truth
// for reads; writers must commit to the store first and call Upsert/Remove
// only after the store confirmed the write.
type Cache[T Record] struct {
	mu         sync.RWMutex
	entries    map[string]T
	tombstones map[string]struct{}
}

func NewCache[T Record]() *Cache[T] {
	return &Cache[T]{
		entries:    make(map[string]T),
		tombstones: make(map[string]struct{}),
	}
}

// ReplaceAll clears the cache and rebuilds it keyed by id. Used at startup
// and on explicit reloads. A record without an id means the loader is broken,
// not the user: that panics.
func (c *Cache[T]) ReplaceAll(records []T) {
	fresh := make(map[string]T, len(records))
	for _, record := range records {
		id := record.RecordID()
		if id == "" {
			panic("readmodel: ReplaceAll called with a record without id")
		}
		fresh[id] = record
	}
	c.mu.Lock()
	c.entries = fresh
	c.tombstones = make(map[string]struct{})
	c.mu.Unlock()
}

// Upsert overwrites the record at its id wholesale. A record carrying an
// older version than the cached one is a write-through that lost the race
// against a later store commit and is dropped, so the cache always reflects
// the last committed state per id regardless of goroutine scheduling.
func (c *Cache[T]) Upsert(record T) {
	id := record.RecordID()
	if id == "" {
		panic("readmodel: Upsert called with a record without id")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dead := c.tombstones[id]; dead {
		return
	}
	if existing, ok := c.entries[id]; ok && existing.RecordVersion() > record.RecordVersion() {
		return
	}
	c.entries[id] = record
}

func (c *Cache[T]) GetByID(id string) (T, bool) {
	var zero T
	if id == "" {
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.entries[id]
	if !ok {
		return zero, false
	}
	return record, true
}

// Remove is idempotent; removing an absent id is a no-op. The id is
// tombstoned until the next ReplaceAll: a delete is terminal per id (ids are
// fresh uuids, never reused), so any write-through arriving after Remove lost
// the race against a later delete commit whatever version it carries, and
// comparing versions would not catch an update that committed between the
// cached state and the delete.
func (c *Cache[T]) Remove(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.tombstones[id] = struct{}{}
	c.mu.Unlock()
}

// All returns a copy of the mapping keyed by id.
func (c *Cache[T]) All() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]T, len(c.entries))
	for id, record := range c.entries {
		out[id] = record
	}
	return out
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TitledCache adds title/slug lookups on top of Cache. Catalogs are small
// (tens to low hundreds of entries), so the scan is deliberate simplicity
// over an index.
type TitledCache[T Titled] struct {
	Cache[T]
}

func NewTitledCache[T Titled]() *TitledCache[T] {
	return &TitledCache[T]{Cache[T]{
		entries:    make(map[string]T),
		tombstones: make(map[string]struct{}),
	}}
}

// FindByTitleOrSlug matches either the exact title or the slug form of the
// given title against cached entries.
func (c *TitledCache[T]) FindByTitleOrSlug(title string) (T, bool) {
	titleSlug := slug.Make(title)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, record := range c.entries {
		if record.RecordTitle() == title || record.RecordTitleSlug() == titleSlug {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// GetTitle returns the title for an id; callers are expected to have
// validated existence, an absent id is an error here.
func (c *TitledCache[T]) GetTitle(id string) (string, error) {
	record, ok := c.GetByID(id)
	if !ok {
		return "", internal.ErrEntryNotFound.WithCause(fmt.Errorf("no cached entry %q", id))
	}
	return record.RecordTitle(), nil
}

// Catalog is the cache type shared by the five catalog kinds.
type Catalog = TitledCache[CatalogEntry]

func NewCatalog() *Catalog {
	return NewTitledCache[CatalogEntry]()
}
