package gemini

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultKeyCooldown = 5 * time.Minute

// CredentialPool hands out API keys in priority order and sidelines keys
// the upstream has rejected for quota or permission reasons. A sidelined
// key becomes eligible again after its cooldown expires.
type CredentialPool struct {
	cooldown time.Duration
	now      func() time.Time

	mu             sync.Mutex
	keys           []string
	unhealthyUntil map[string]time.Time
}

func NewCredentialPool(keys []string, cooldown time.Duration) (*CredentialPool, error) {
	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			filtered = append(filtered, key)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("credential pool: no api keys configured")
	}
	if cooldown <= 0 {
		cooldown = defaultKeyCooldown
	}
	return &CredentialPool{
		cooldown:       cooldown,
		now:            time.Now,
		keys:           filtered,
		unhealthyUntil: make(map[string]time.Time),
	}, nil
}

// Next returns the first healthy key. When every key is cooling down it
// returns the one that recovers soonest so calls keep probing the upstream.
func (p *CredentialPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var soonest string
	var soonestAt time.Time
	for _, key := range p.keys {
		until, sidelined := p.unhealthyUntil[key]
		if !sidelined || now.After(until) {
			delete(p.unhealthyUntil, key)
			return key
		}
		if soonest == "" || until.Before(soonestAt) {
			soonest = key
			soonestAt = until
		}
	}

	slog.Warn("gemini_all_keys_unhealthy", "keys", len(p.keys), "retry_with_soonest", soonestAt)
	return soonest
}

func (p *CredentialPool) MarkUnhealthy(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	until := p.now().Add(p.cooldown)
	p.unhealthyUntil[key] = until
	slog.Warn("gemini_key_sidelined", "until", until)
}

func (p *CredentialPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
