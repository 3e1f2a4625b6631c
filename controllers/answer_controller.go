package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/permissions"
	"github.com/hyeonlab/unihub/storage"
	"github.com/hyeonlab/unihub/utils"
)

// AnswerController manages answers to Q&A posts.
type AnswerController struct {
	db    *gorm.DB
	perms *permissions.Engine
	store *storage.Client
}

// NewAnswerController creates an AnswerController.
func NewAnswerController(db *gorm.DB, perms *permissions.Engine, store *storage.Client) *AnswerController {
	return &AnswerController{db: db, perms: perms, store: store}
}

// ListAnswers returns a cursor-paginated, newest-first answer listing,
// optionally filtered by post or writer.
func (a *AnswerController) ListAnswers(ctx *gin.Context) {
	pageSize := utils.PageSize(ctx.Query("page_size"), postPageSize)

	q := a.db.Model(&models.Answer{}).Preload("Writer")
	if post := strings.TrimSpace(ctx.Query("post")); post != "" {
		q = q.Where("post_id = ?", post)
	}
	if writer := strings.TrimSpace(ctx.Query("writer")); writer != "" {
		q = q.Where("writer_id = ?", writer)
	}

	q, err := utils.ApplyCursor(q, ctx.Query("cursor"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid cursor")
		return
	}

	var answers []models.Answer
	if err := q.Order("created_at DESC, id DESC").Limit(pageSize + 1).Find(&answers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list answers")
		return
	}

	next := ""
	if len(answers) > pageSize {
		answers = answers[:pageSize]
		last := answers[len(answers)-1]
		next = utils.EncodeCursor(last.CreatedAt, last.ID)
	}
	utils.Success(ctx, gin.H{"items": answers, "next": next})
}

// GetAnswer returns a single answer with its image prefix.
func (a *AnswerController) GetAnswer(ctx *gin.Context) {
	answer, ok := a.loadAnswer(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{
		"answer":       answer,
		"image_prefix": storage.ImagePrefix("answer", answer.ID),
	})
}

// CreateAnswer submits an answer to a post. A post accepts at most one answer
// per user and no further answers once one has been accepted; the composite
// unique index catches concurrent duplicates the pre-check cannot see.
func (a *AnswerController) CreateAnswer(ctx *gin.Context) {
	var req struct {
		Post    uint   `json:"post" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	var post models.Post
	if err := a.db.First(&post, req.Post).Error; err != nil {
		utils.ValidationError(ctx, 40032, "post", "no such post")
		return
	}
	if post.AcceptedAnswerID != nil {
		utils.ValidationError(ctx, 40033, "post", "this post already has an accepted answer")
		return
	}

	userID, _ := getUserID(ctx)
	var existing int64
	a.db.Model(&models.Answer{}).
		Where("post_id = ? AND writer_id = ?", post.ID, userID).
		Count(&existing)
	if existing > 0 {
		utils.ValidationError(ctx, 40034, "post", "you have already answered this post")
		return
	}

	answer := models.Answer{
		PostID:   post.ID,
		WriterID: &userID,
		Content:  utils.Sanitize(req.Content),
	}
	if err := a.db.Create(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.ValidationError(ctx, 40034, "post", "you have already answered this post")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create answer")
		return
	}
	a.db.Preload("Writer").First(&answer, answer.ID)

	upload, err := a.store.PresignUpload(storage.ImagePrefix("answer", answer.ID) + uuid.NewString())
	if err != nil {
		utils.Sugar.Warnf("failed to presign answer image upload for %d: %v", answer.ID, err)
	}
	utils.Created(ctx, gin.H{"answer": answer, "image_upload": upload})
}

// UpdateAnswer edits an answer's content.
func (a *AnswerController) UpdateAnswer(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40035, "invalid request payload")
		return
	}

	answer, ok := a.loadAnswer(ctx)
	if !ok {
		return
	}
	if !a.perms.Allows(currentUserID(ctx), permissions.Change, answer) {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only update your own answers")
		return
	}

	answer.Content = utils.Sanitize(req.Content)
	if err := a.db.Save(answer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update answer")
		return
	}
	utils.Success(ctx, gin.H{"answer": answer})
}

// DeleteAnswer removes an answer and its stored images.
func (a *AnswerController) DeleteAnswer(ctx *gin.Context) {
	answer, ok := a.loadAnswer(ctx)
	if !ok {
		return
	}
	if !a.perms.Allows(currentUserID(ctx), permissions.Delete, answer) {
		utils.Error(ctx, http.StatusForbidden, 40331, "you can only delete your own answers")
		return
	}
	if err := a.db.Delete(answer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete answer")
		return
	}
	if err := a.store.DeletePrefix(storage.ImagePrefix("answer", answer.ID)); err != nil {
		utils.Sugar.Warnf("failed to clear image prefix for answer %d: %v", answer.ID, err)
	}
	utils.NoContent(ctx)
}

func (a *AnswerController) loadAnswer(ctx *gin.Context) (*models.Answer, bool) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40036, "invalid answer id")
		return nil, false
	}
	var answer models.Answer
	err := a.db.Preload("Writer").First(&answer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load answer")
		}
		return nil, false
	}
	return &answer, true
}
