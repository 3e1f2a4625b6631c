package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// These tests exercise the in-memory fallback; no Redis host is configured in
// the test environment.

func TestBlacklistToken(t *testing.T) {
	token := "blacklist-me"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Minute))
	assert.True(t, IsTokenBlacklisted(token))
}

func TestBlacklistTokenExpired(t *testing.T) {
	token := "already-expired"
	BlacklistToken(token, time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted(token))
}

func TestBlacklistEntryLapses(t *testing.T) {
	token := "short-lived"
	BlacklistToken(token, time.Now().Add(20*time.Millisecond))
	assert.True(t, IsTokenBlacklisted(token))

	time.Sleep(30 * time.Millisecond)
	assert.False(t, IsTokenBlacklisted(token))
}
