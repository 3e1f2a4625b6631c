package utils

import (
	"context"
	"sync"
	"time"
)

type blacklistEntry struct {
	expiresAt time.Time
}

var (
	blacklist   = map[string]blacklistEntry{}
	blacklistMu sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiration, backing signout
// and refresh rotation. Redis is preferred so revocation survives restarts and
// spans replicas; without Redis an in-memory map is used.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if rc.Set(ctx, "jwt:blacklist:"+token, "1", ttl).Err() == nil {
			return
		}
	}
	blacklistMu.Lock()
	blacklist[token] = blacklistEntry{expiresAt: expiresAt}
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if n, err := rc.Exists(ctx, "jwt:blacklist:"+token).Result(); err == nil && n > 0 {
			return true
		}
	}
	blacklistMu.RLock()
	entry, ok := blacklist[token]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, token)
		blacklistMu.Unlock()
		return false
	}
	return true
}
