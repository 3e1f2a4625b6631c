package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyeonlab/unihub/models"
)

func uintPtr(v uint) *uint { return &v }

func TestOwnerHasAllPermissions(t *testing.T) {
	engine := NewEngine()
	post := &models.Post{ID: 1, WriterID: uintPtr(7)}

	for _, kind := range []Kind{View, Change, Delete} {
		assert.True(t, engine.Allows(7, kind, post), "owner should hold %s", kind)
	}
}

func TestNonOwnerPublicObject(t *testing.T) {
	engine := NewEngine()
	post := &models.Post{ID: 1, WriterID: uintPtr(7)}

	assert.True(t, engine.Allows(8, View, post))
	assert.False(t, engine.Allows(8, Change, post))
	assert.False(t, engine.Allows(8, Delete, post))
}

func TestNonOwnerPrivateObjectDeniedEntirely(t *testing.T) {
	engine := NewEngine()
	post := &models.Post{ID: 1, WriterID: uintPtr(7), IsPrivate: true}

	for _, kind := range []Kind{View, Change, Delete} {
		assert.False(t, engine.Allows(8, kind, post), "non-owner should be denied %s on private object", kind)
	}
	// The owner keeps full access regardless of privacy.
	assert.True(t, engine.Allows(7, Change, post))
}

func TestAddAlwaysGranted(t *testing.T) {
	engine := NewEngine()

	assert.True(t, engine.Allows(0, Add, nil))
	assert.True(t, engine.Allows(5, Add, &models.Post{WriterID: uintPtr(1), IsPrivate: true}))
}

func TestUserObjects(t *testing.T) {
	engine := NewEngine()
	target := &models.User{ID: 3}

	assert.True(t, engine.Allows(0, View, target), "anyone may view a user")
	assert.True(t, engine.Allows(9, View, target))
	assert.True(t, engine.Allows(3, Change, target))
	assert.False(t, engine.Allows(9, Change, target))
	assert.False(t, engine.Allows(0, Delete, target))
}

func TestAnonymousUser(t *testing.T) {
	engine := NewEngine()
	post := &models.Post{ID: 1, WriterID: uintPtr(7)}

	assert.True(t, engine.Allows(0, View, post))
	assert.False(t, engine.Allows(0, Change, post))
	assert.False(t, engine.Allows(0, View, &models.Post{WriterID: uintPtr(7), IsPrivate: true}))
}

func TestOrphanedObject(t *testing.T) {
	engine := NewEngine()
	// Writer deleted: the owner reference went null, nobody is the owner.
	post := &models.Post{ID: 1, WriterID: nil}

	assert.True(t, engine.Allows(8, View, post))
	assert.False(t, engine.Allows(8, Delete, post))
}

func TestOwnerFieldVariants(t *testing.T) {
	engine := NewEngine()

	assert.True(t, engine.Allows(4, Delete, &models.Comment{WriterID: uintPtr(4)}))
	assert.True(t, engine.Allows(4, Change, &models.Story{WriterID: 4}))
	assert.False(t, engine.Allows(5, Change, &models.Story{WriterID: 4}))
	assert.True(t, engine.Allows(4, Delete, &models.Directory{UploaderID: 4}))
	assert.False(t, engine.Allows(5, Delete, &models.Directory{UploaderID: 4}))
}

func TestUnmappedTypeFallsBackToPrivacy(t *testing.T) {
	engine := NewEngine()
	// Lectures have no owner mapping and no privacy flag: open to everyone.
	assert.True(t, engine.Allows(0, View, &models.Lecture{ID: 1}))
	assert.True(t, engine.Allows(9, Change, &models.Lecture{ID: 1}))
}
