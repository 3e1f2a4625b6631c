package models

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// Target resolution failures. ErrTargetInvalid maps to 400, ErrTargetNotFound
// to 404 at the HTTP layer.
var (
	ErrTargetInvalid  = errors.New("exactly one numeric target id is required")
	ErrTargetNotFound = errors.New("target entity not found")
)

// TargetRef identifies the entity a comment attaches to.
type TargetRef struct {
	Kind TargetKind
	ID   uint
}

// ParseTargetParams picks the target from the caller-supplied post/answer/
// comment parameters. Exactly one must be present and numeric; supplying none
// or a non-numeric value is a client error. Pure function, no store access.
func ParseTargetParams(post, answer, comment string) (TargetRef, error) {
	var kind TargetKind
	var raw string
	switch {
	case post != "":
		kind, raw = TargetPost, post
	case answer != "":
		kind, raw = TargetAnswer, answer
	case comment != "":
		kind, raw = TargetComment, comment
	default:
		return TargetRef{}, ErrTargetInvalid
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return TargetRef{}, ErrTargetInvalid
	}
	return TargetRef{Kind: kind, ID: uint(id)}, nil
}

// ResolveTarget verifies that the referenced row exists for the expected
// entity type. Pure lookup, no side effects.
func ResolveTarget(db *gorm.DB, ref TargetRef) error {
	var n int64
	var err error
	switch ref.Kind {
	case TargetPost:
		err = db.Model(&Post{}).Where("id = ?", ref.ID).Count(&n).Error
	case TargetAnswer:
		err = db.Model(&Answer{}).Where("id = ?", ref.ID).Count(&n).Error
	case TargetComment:
		err = db.Model(&Comment{}).Where("id = ?", ref.ID).Count(&n).Error
	default:
		return ErrTargetInvalid
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTargetNotFound
	}
	return nil
}
