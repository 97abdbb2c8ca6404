package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Page is one rendered response.
type Page struct {
	Body        []byte
	ContentType string
	Tags        []string
	RenderedAt  time.Time
}

// PageCache stores rendered pages keyed by request path and indexes them by
// revalidation tag. A render that started before an invalidation is never
// stored, so stale output cannot outlive the mutation that invalidated it.
type PageCache struct {
	store *ristretto.Cache[string, Page]
	ttl   time.Duration

	mu      sync.Mutex
	epoch   uint64
	byTag   map[string]map[string]struct{}
	keyTags map[string][]string
}

// NewPageCache builds a cache holding up to maxBytes of page bodies. ttl of
// zero keeps pages until invalidated or evicted.
func NewPageCache(maxBytes int64, ttl time.Duration) (*PageCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, Page]{
		NumCounters:        10_000,
		MaxCost:            maxBytes,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("page cache: %w", err)
	}
	return &PageCache{
		store:   store,
		ttl:     ttl,
		byTag:   make(map[string]map[string]struct{}),
		keyTags: make(map[string][]string),
	}, nil
}

// Epoch marks the start of a render. Pass it to Set.
func (p *PageCache) Epoch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

func (p *PageCache) Get(key string) (Page, bool) {
	return p.store.Get(key)
}

// Set stores page unless an invalidation happened after epoch. It reports
// whether the page was accepted.
func (p *PageCache) Set(key string, page Page, epoch uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if epoch != p.epoch {
		return false
	}
	if !p.store.SetWithTTL(key, page, int64(len(page.Body)), p.ttl) {
		return false
	}
	p.store.Wait()

	p.unindex(key)
	for _, tag := range page.Tags {
		keys, ok := p.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			p.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	p.keyTags[key] = page.Tags
	return true
}

// Invalidate drops every page carrying any of tags and returns how many
// pages were dropped.
func (p *PageCache) Invalidate(tags ...string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++

	dropped := 0
	for _, tag := range tags {
		for key := range p.byTag[tag] {
			p.store.Del(key)
			p.unindex(key)
			dropped++
		}
	}
	return dropped
}

// Purge drops everything.
func (p *PageCache) Purge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.store.Clear()
	p.byTag = make(map[string]map[string]struct{})
	p.keyTags = make(map[string][]string)
}

func (p *PageCache) Close() {
	p.store.Close()
}

// unindex removes key from the tag index. Caller holds mu.
func (p *PageCache) unindex(key string) {
	for _, tag := range p.keyTags[key] {
		if keys, ok := p.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(p.byTag, tag)
			}
		}
	}
	delete(p.keyTags, key)
}
