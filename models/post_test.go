package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestValidateAcceptance(t *testing.T) {
	post := &Post{ID: 1, WriterID: uintPtr(10)}

	t.Run("answer on another post", func(t *testing.T) {
		answer := &Answer{ID: 5, PostID: 2, WriterID: uintPtr(11)}
		assert.ErrorIs(t, ValidateAcceptance(post, answer), ErrAnswerWrongPost)
	})

	t.Run("own answer", func(t *testing.T) {
		answer := &Answer{ID: 5, PostID: 1, WriterID: uintPtr(10)}
		assert.ErrorIs(t, ValidateAcceptance(post, answer), ErrSelfAccept)
	})

	t.Run("valid acceptance", func(t *testing.T) {
		answer := &Answer{ID: 5, PostID: 1, WriterID: uintPtr(11)}
		assert.NoError(t, ValidateAcceptance(post, answer))
	})

	t.Run("orphaned writers never self accept", func(t *testing.T) {
		orphanPost := &Post{ID: 1, WriterID: nil}
		answer := &Answer{ID: 5, PostID: 1, WriterID: nil}
		assert.NoError(t, ValidateAcceptance(orphanPost, answer))
	})
}

func TestPostPrivate(t *testing.T) {
	assert.False(t, (&Post{}).Private())
	assert.True(t, (&Post{IsPrivate: true}).Private())
}
