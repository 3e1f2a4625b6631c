package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetKindValid(t *testing.T) {
	assert.True(t, TargetPost.Valid())
	assert.True(t, TargetAnswer.Valid())
	assert.True(t, TargetComment.Valid())
	assert.False(t, TargetKind("").Valid())
	assert.False(t, TargetKind("user").Valid())
	assert.False(t, TargetKind("Post").Valid())
}
