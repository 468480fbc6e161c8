package local

import (
	"sync"
	"time"
)

// blacklist holds signed-out tokens until they would have expired anyway.
type blacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func newBlacklist() *blacklist {
	return &blacklist{tokens: make(map[string]time.Time)}
}

func (b *blacklist) add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
}

func (b *blacklist) contains(token string, now time.Time) bool {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()
	return exists && now.Before(expiry)
}

// prune drops entries whose token has expired.
func (b *blacklist) prune(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for token, expiry := range b.tokens {
		if now.After(expiry) {
			delete(b.tokens, token)
		}
	}
}
