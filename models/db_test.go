package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}, &Field{}, &Post{}, &Answer{}, &Comment{}))
	return db
}

func TestCreateCommentReplyDepthCap(t *testing.T) {
	db := newTestDB(t)

	post := Post{Title: "stuck on joins", Content: "how do I join?"}
	require.NoError(t, db.Create(&post).Error)

	top := Comment{Content: "same here", TargetKind: TargetPost, TargetID: post.ID}
	require.NoError(t, CreateComment(db, &top))

	reply := Comment{Content: "use Preload", TargetKind: TargetComment, TargetID: top.ID}
	require.NoError(t, CreateComment(db, &reply))

	deep := Comment{Content: "thanks", TargetKind: TargetComment, TargetID: reply.ID}
	assert.ErrorIs(t, CreateComment(db, &deep), ErrReplyDepth)

	var n int64
	require.NoError(t, db.Model(&Comment{}).Count(&n).Error)
	assert.Equal(t, int64(2), n, "a rejected reply must not be persisted")
}

func TestCreateCommentMissingParent(t *testing.T) {
	db := newTestDB(t)

	orphan := Comment{Content: "into the void", TargetKind: TargetComment, TargetID: 999}
	assert.ErrorIs(t, CreateComment(db, &orphan), gorm.ErrRecordNotFound)
}

func TestPostCreateClearsClientAcceptance(t *testing.T) {
	db := newTestDB(t)

	post := Post{Title: "fresh", Content: "x", AcceptedAnswerID: uintPtr(5)}
	require.NoError(t, db.Create(&post).Error)
	assert.Nil(t, post.AcceptedAnswerID)

	var stored Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Nil(t, stored.AcceptedAnswerID)
}

func TestPostSaveAcceptanceReset(t *testing.T) {
	db := newTestDB(t)

	post := Post{Title: "q", Content: "x"}
	other := Post{Title: "other", Content: "y"}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&other).Error)

	foreign := Answer{PostID: other.ID, Content: "elsewhere"}
	require.NoError(t, db.Create(&foreign).Error)

	t.Run("answer on another post is force-reset", func(t *testing.T) {
		post.AcceptedAnswerID = &foreign.ID
		require.NoError(t, db.Save(&post).Error)

		var stored Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Nil(t, stored.AcceptedAnswerID)
	})

	t.Run("vanished answer is force-reset", func(t *testing.T) {
		missing := uint(999)
		post.AcceptedAnswerID = &missing
		require.NoError(t, db.Save(&post).Error)

		var stored Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Nil(t, stored.AcceptedAnswerID)
	})

	t.Run("answer on this post sticks", func(t *testing.T) {
		own := Answer{PostID: post.ID, WriterID: uintPtr(2), Content: "here"}
		require.NoError(t, db.Create(&own).Error)

		post.AcceptedAnswerID = &own.ID
		require.NoError(t, db.Save(&post).Error)

		var stored Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		require.NotNil(t, stored.AcceptedAnswerID)
		assert.Equal(t, own.ID, *stored.AcceptedAnswerID)
	})
}

func TestAnswerUniquePerWriterPerPost(t *testing.T) {
	db := newTestDB(t)

	post := Post{Title: "q", Content: "x"}
	require.NoError(t, db.Create(&post).Error)

	first := Answer{PostID: post.ID, WriterID: uintPtr(3), Content: "a"}
	require.NoError(t, db.Create(&first).Error)

	second := Answer{PostID: post.ID, WriterID: uintPtr(3), Content: "b"}
	assert.ErrorIs(t, db.Create(&second).Error, gorm.ErrDuplicatedKey)

	elsewhere := Answer{PostID: post.ID, WriterID: uintPtr(4), Content: "c"}
	assert.NoError(t, db.Create(&elsewhere).Error)
}
