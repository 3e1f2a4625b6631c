package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTargetParams(t *testing.T) {
	tests := []struct {
		name                  string
		post, answer, comment string
		wantKind              TargetKind
		wantID                uint
		wantErr               error
	}{
		{name: "post target", post: "12", wantKind: TargetPost, wantID: 12},
		{name: "answer target", answer: "7", wantKind: TargetAnswer, wantID: 7},
		{name: "comment target", comment: "3", wantKind: TargetComment, wantID: 3},
		{name: "no target", wantErr: ErrTargetInvalid},
		{name: "non-numeric post", post: "abc", wantErr: ErrTargetInvalid},
		{name: "non-numeric answer", answer: "12x", wantErr: ErrTargetInvalid},
		{name: "negative id", post: "-1", wantErr: ErrTargetInvalid},
		{name: "zero id", post: "0", wantErr: ErrTargetInvalid},
		{name: "empty after other empties", comment: "", wantErr: ErrTargetInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseTargetParams(tt.post, tt.answer, tt.comment)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantKind, ref.Kind)
			assert.Equal(t, tt.wantID, ref.ID)
		})
	}
}

func TestParseTargetParamsPostWins(t *testing.T) {
	// When several parameters arrive, the first of post/answer/comment is used.
	ref, err := ParseTargetParams("5", "6", "7")
	assert.NoError(t, err)
	assert.Equal(t, TargetPost, ref.Kind)
	assert.Equal(t, uint(5), ref.ID)
}
