package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/lokeshch/document-assistant/internal/core/domain"
)

const (
	defaultSessionTTL      = 30 * time.Minute
	defaultSessionCapacity = 1000
	maxExchangesPerSession = 20
)

type sessionEntry struct {
	id        string
	history   []domain.Exchange
	expiresAt time.Time
}

// SessionCache keeps per-session chat history in memory with a sliding TTL
// and an LRU capacity bound. Each Append refreshes the session's TTL; the
// oldest session is evicted when the cache is full.
type SessionCache struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	order   *list.List
	entries map[string]*list.Element
}

func NewSessionCache(ttl time.Duration, capacity int) *SessionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if capacity <= 0 {
		capacity = defaultSessionCapacity
	}
	return &SessionCache{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *SessionCache) History(sessionID string) []domain.Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[sessionID]
	if !ok {
		return nil
	}
	entry := elem.Value.(*sessionEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		return nil
	}

	c.order.MoveToFront(elem)
	out := make([]domain.Exchange, len(entry.history))
	copy(out, entry.history)
	return out
}

func (c *SessionCache) Append(sessionID string, exchange domain.Exchange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	elem, ok := c.entries[sessionID]
	if ok {
		entry := elem.Value.(*sessionEntry)
		if now.After(entry.expiresAt) {
			entry.history = nil
		}
		entry.history = append(entry.history, exchange)
		if len(entry.history) > maxExchangesPerSession {
			entry.history = entry.history[len(entry.history)-maxExchangesPerSession:]
		}
		entry.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	entry := &sessionEntry{
		id:        sessionID,
		history:   []domain.Exchange{exchange},
		expiresAt: now.Add(c.ttl),
	}
	c.entries[sessionID] = c.order.PushFront(entry)
}

func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *SessionCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*sessionEntry)
	delete(c.entries, entry.id)
	c.order.Remove(elem)
}
