package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrBadCursor is returned for malformed pagination cursors.
var ErrBadCursor = errors.New("invalid pagination cursor")

// Cursor pagination keeps newest-first ordering stable under concurrent
// inserts: the cursor pins a (created_at, id) position instead of an offset.

// EncodeCursor builds an opaque cursor from the last row of a page.
func EncodeCursor(createdAt time.Time, id uint) string {
	raw := fmt.Sprintf("%d:%d", createdAt.UnixMicro(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(cursor string) (time.Time, uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, 0, ErrBadCursor
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, ErrBadCursor
	}
	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, ErrBadCursor
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return time.Time{}, 0, ErrBadCursor
	}
	return time.UnixMicro(micros), uint(id), nil
}

// ApplyCursor narrows a newest-first query to rows strictly after the cursor
// position. An empty cursor leaves the query untouched.
func ApplyCursor(q *gorm.DB, cursor string) (*gorm.DB, error) {
	if cursor == "" {
		return q, nil
	}
	createdAt, id, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	return q.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, id), nil
}

// PageSize parses the page_size query value, clamped to [1, 100] with the
// given default.
func PageSize(raw string, def int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
		return n
	}
	return def
}
