package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	cursor := EncodeCursor(at, 1234)

	gotAt, gotID, err := DecodeCursor(cursor)
	assert.NoError(t, err)
	assert.Equal(t, uint(1234), gotID)
	assert.True(t, gotAt.Equal(at))
}

func TestDecodeCursorRejectsMalformed(t *testing.T) {
	for _, cursor := range []string{
		"not base64 !!!",
		"bm9jb2xvbg", // decodes but has no separator
		EncodeCursor(time.Now(), 1) + "garbage",
	} {
		_, _, err := DecodeCursor(cursor)
		assert.ErrorIs(t, err, ErrBadCursor, "cursor %q", cursor)
	}
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, 10, PageSize("", 10))
	assert.Equal(t, 10, PageSize("abc", 10))
	assert.Equal(t, 10, PageSize("0", 10))
	assert.Equal(t, 10, PageSize("-5", 10))
	assert.Equal(t, 10, PageSize("101", 10))
	assert.Equal(t, 25, PageSize("25", 10))
	assert.Equal(t, 100, PageSize("100", 10))
}
