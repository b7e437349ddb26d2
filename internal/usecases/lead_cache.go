package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
	"leadflow.backend/internal/domain/repositories"
)

// CacheChangeKind tells subscribers what happened to the cache
type CacheChangeKind string

const (
	CacheRefreshed CacheChangeKind = "refreshed"
	CacheUpserted  CacheChangeKind = "upserted"
	CacheRemoved   CacheChangeKind = "removed"
)

// CacheChange is delivered to subscribers after every cache mutation.
// Lead is nil for CacheRefreshed.
type CacheChange struct {
	Kind CacheChangeKind
	Lead *entities.Lead
}

// LeadCache is the process-wide in-memory lead collection shared by the list,
// pipeline and dashboard views. Leads are kept in created_at DESC order.
type LeadCache struct {
	repo    repositories.LeadRepository
	timeout time.Duration

	mu     sync.RWMutex
	leads  []*entities.Lead
	loaded bool

	subMu  sync.Mutex
	subs   map[uint64]func(CacheChange)
	nextID uint64
}

func NewLeadCache(repo repositories.LeadRepository, timeout time.Duration) *LeadCache {
	return &LeadCache{
		repo:    repo,
		timeout: timeout,
		subs:    make(map[uint64]func(CacheChange)),
	}
}

// Refresh reloads the whole collection from the store. On failure the
// previous contents are kept.
func (c *LeadCache) Refresh(ctx context.Context) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	leads, err := c.repo.List(ctx, entities.LeadFilter{})
	if err != nil {
		return err
	}

	fresh := make([]*entities.Lead, 0, len(leads))
	for _, l := range leads {
		fresh = append(fresh, l.Clone())
	}

	c.mu.Lock()
	c.leads = fresh
	c.loaded = true
	c.mu.Unlock()

	c.notify(CacheChange{Kind: CacheRefreshed})
	return nil
}

// Loaded reports whether Refresh has succeeded at least once.
func (c *LeadCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// ApplyPatch upserts lead. Known leads keep their position; new ones are
// prepended.
func (c *LeadCache) ApplyPatch(lead *entities.Lead) {
	if lead == nil {
		return
	}
	stored := lead.Clone()

	c.mu.Lock()
	if i := c.indexOf(stored.ID); i >= 0 {
		c.leads[i] = stored
	} else {
		c.leads = append([]*entities.Lead{stored}, c.leads...)
	}
	c.mu.Unlock()

	c.notify(CacheChange{Kind: CacheUpserted, Lead: stored.Clone()})
}

// Remove drops the lead with id and reports whether it was cached.
func (c *LeadCache) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	i := c.indexOf(id)
	var removed *entities.Lead
	if i >= 0 {
		removed = c.leads[i]
		c.leads = append(c.leads[:i:i], c.leads[i+1:]...)
	}
	c.mu.Unlock()

	if removed == nil {
		return false
	}
	c.notify(CacheChange{Kind: CacheRemoved, Lead: removed.Clone()})
	return true
}

// Get returns a copy of the cached lead.
func (c *LeadCache) Get(id uuid.UUID) (*entities.Lead, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.leads[i].Clone(), true
	}
	return nil, false
}

// Snapshot returns a copy of the collection safe to hand to the engines.
func (c *LeadCache) Snapshot() []*entities.Lead {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entities.Lead, 0, len(c.leads))
	for _, l := range c.leads {
		out = append(out, l.Clone())
	}
	return out
}

// Subscribe registers fn for cache changes and returns its unsubscribe func.
func (c *LeadCache) Subscribe(fn func(CacheChange)) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Move persists a status change and patches the cache only once persist
// succeeds. A failed persist leaves the cache untouched.
func (c *LeadCache) Move(ctx context.Context, id uuid.UUID, persist func(ctx context.Context) (*entities.Lead, error)) (*entities.Lead, error) {
	updated, err := persist(ctx)
	if err != nil {
		return nil, err
	}
	c.ApplyPatch(updated)
	return updated, nil
}

func (c *LeadCache) indexOf(id uuid.UUID) int {
	for i, l := range c.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c *LeadCache) notify(change CacheChange) {
	c.subMu.Lock()
	fns := make([]func(CacheChange), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
