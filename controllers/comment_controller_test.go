package controllers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hyeonlab/unihub/middleware"
	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/permissions"
)

func newCommentTestEnv(t *testing.T) (*gorm.DB, *CommentController) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Field{}, &models.Post{}, &models.Answer{}, &models.Comment{},
	))

	return db, NewCommentController(db, permissions.NewEngine())
}

func commentRequest(userID uint, method, target, body string) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	if userID != 0 {
		ctx.Set(middleware.ContextUserIDKey, userID)
	}
	return w, ctx
}

func TestCreateCommentOnPost(t *testing.T) {
	db, ctl := newCommentTestEnv(t)

	writer := models.User{Email: "dana@unihub.dev", Username: "dana", IsActive: true}
	require.NoError(t, db.Create(&writer).Error)
	post := models.Post{Title: "q", Content: "x"}
	require.NoError(t, db.Create(&post).Error)

	w, ctx := commentRequest(writer.ID, http.MethodPost,
		"/qna/comments?post="+strconv.Itoa(int(post.ID)), `{"content":"same question here"}`)
	ctl.CreateComment(ctx)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"dana"`,
		"created comment should come back with its writer attached")
}

func TestCreateCommentReplyToReplyRejected(t *testing.T) {
	db, ctl := newCommentTestEnv(t)

	post := models.Post{Title: "q", Content: "x"}
	require.NoError(t, db.Create(&post).Error)
	top := models.Comment{Content: "top", TargetKind: models.TargetPost, TargetID: post.ID}
	require.NoError(t, models.CreateComment(db, &top))
	reply := models.Comment{Content: "reply", TargetKind: models.TargetComment, TargetID: top.ID}
	require.NoError(t, models.CreateComment(db, &reply))

	w, ctx := commentRequest(1, http.MethodPost,
		"/qna/comments?comment="+strconv.Itoa(int(reply.ID)), `{"content":"too deep"}`)
	ctl.CreateComment(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestCreateCommentTargetErrors(t *testing.T) {
	_, ctl := newCommentTestEnv(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "non-numeric id", target: "/qna/comments?post=abc", status: http.StatusBadRequest},
		{name: "no target param", target: "/qna/comments", status: http.StatusBadRequest},
		{name: "missing row", target: "/qna/comments?post=999", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ctx := commentRequest(1, http.MethodPost, tt.target, `{"content":"hello"}`)
			ctl.CreateComment(ctx)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUpdateCommentRejectsEmptyContent(t *testing.T) {
	db, ctl := newCommentTestEnv(t)

	post := models.Post{Title: "q", Content: "x"}
	require.NoError(t, db.Create(&post).Error)
	writerID := uint(1)
	comment := models.Comment{
		WriterID: &writerID, Content: "original",
		TargetKind: models.TargetPost, TargetID: post.ID,
	}
	require.NoError(t, models.CreateComment(db, &comment))

	// Script tags sanitize away entirely, leaving nothing to store.
	w, ctx := commentRequest(writerID, http.MethodPut, "/qna/comments/1",
		`{"content":"<script>alert(1)</script>"}`)
	ctx.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(comment.ID))}}
	ctl.UpdateComment(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var stored models.Comment
	require.NoError(t, db.First(&stored, comment.ID).Error)
	assert.Equal(t, "original", stored.Content)
}
