package repository

import (
	"context"
	"sync"
	"time"

	"safarinova/internal/models"
)

type memoryEntry struct {
	claims    models.Claims
	expiresAt time.Time
}

// MemoryClaimsCache is the in-process fallback used when redis is absent
// or down. Safe for concurrent use.
type MemoryClaimsCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryClaimsCache() *MemoryClaimsCache {
	return &MemoryClaimsCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryClaimsCache) GetClaims(_ context.Context, fingerprint string) (*models.Claims, error) {
	m.mu.RLock()
	entry, ok := m.entries[fingerprint]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, fingerprint)
		m.mu.Unlock()
		return nil, nil
	}

	claims := entry.claims
	return &claims, nil
}

func (m *MemoryClaimsCache) SetClaims(_ context.Context, fingerprint string, claims *models.Claims, ttl time.Duration) error {
	if claims == nil || ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	m.entries[fingerprint] = memoryEntry{claims: *claims, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}
