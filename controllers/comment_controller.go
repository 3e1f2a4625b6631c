package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/permissions"
	"github.com/hyeonlab/unihub/utils"
)

const commentPageSize = 10

// CommentController manages the polymorphic comment tree: comments attach to
// posts, answers, or other comments, with replies capped at one level.
type CommentController struct {
	db    *gorm.DB
	perms *permissions.Engine
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB, perms *permissions.Engine) *CommentController {
	return &CommentController{db: db, perms: perms}
}

// ListComments returns comments on exactly one resolved target, newest first
// with cursor pagination. Without any target parameter it degrades to a flat
// listing of every comment.
func (c *CommentController) ListComments(ctx *gin.Context) {
	q := c.db.Model(&models.Comment{}).Preload("Writer")

	post, answer, comment := ctx.Query("post"), ctx.Query("answer"), ctx.Query("comment")
	if post != "" || answer != "" || comment != "" {
		ref, ok := c.resolveTarget(ctx, post, answer, comment)
		if !ok {
			return
		}
		q = q.Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID)
	}

	q, err := utils.ApplyCursor(q, ctx.Query("cursor"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid cursor")
		return
	}

	pageSize := utils.PageSize(ctx.Query("page_size"), commentPageSize)
	var comments []models.Comment
	if err := q.Order("created_at DESC, id DESC").Limit(pageSize + 1).Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list comments")
		return
	}

	next := ""
	if len(comments) > pageSize {
		comments = comments[:pageSize]
		last := comments[len(comments)-1]
		next = utils.EncodeCursor(last.CreatedAt, last.ID)
	}
	if err := models.AttachRepliesCount(c.db, comments); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count replies")
		return
	}
	utils.Success(ctx, gin.H{"items": comments, "next": next})
}

// CreateComment attaches a comment to the resolved target. Attaching to a
// comment that is itself a reply is rejected before anything is written.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}
	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.ValidationError(ctx, 40042, "content", "content cannot be empty")
		return
	}

	ref, ok := c.resolveTarget(ctx, ctx.Query("post"), ctx.Query("answer"), ctx.Query("comment"))
	if !ok {
		return
	}

	userID, _ := getUserID(ctx)
	comment := models.Comment{
		WriterID:   &userID,
		Content:    content,
		TargetKind: ref.Kind,
		TargetID:   ref.ID,
	}
	if err := models.CreateComment(c.db, &comment); err != nil {
		switch {
		case errors.Is(err, models.ErrReplyDepth):
			utils.ValidationError(ctx, 40043, "comment", "replies can only nest one level deep")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40440, "target comment not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to create comment")
		}
		return
	}

	if err := c.db.Preload("Writer").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load comment")
		return
	}
	comment.RepliesCount = 0
	utils.Created(ctx, gin.H{"comment": comment})
}

// GetComment returns a single comment with its reply count.
func (c *CommentController) GetComment(ctx *gin.Context) {
	comment, ok := c.loadComment(ctx)
	if !ok {
		return
	}
	single := []models.Comment{*comment}
	if err := models.AttachRepliesCount(c.db, single); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count replies")
		return
	}
	utils.Success(ctx, gin.H{"comment": single[0]})
}

// UpdateComment edits a comment's content.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid request payload")
		return
	}

	comment, ok := c.loadComment(ctx)
	if !ok {
		return
	}
	if !c.perms.Allows(currentUserID(ctx), permissions.Change, comment) {
		utils.Error(ctx, http.StatusForbidden, 40340, "you can only update your own comments")
		return
	}

	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.ValidationError(ctx, 40042, "content", "content cannot be empty")
		return
	}

	comment.Content = content
	if err := c.db.Save(comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to update comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment removes a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	comment, ok := c.loadComment(ctx)
	if !ok {
		return
	}
	if !c.perms.Allows(currentUserID(ctx), permissions.Delete, comment) {
		utils.Error(ctx, http.StatusForbidden, 40341, "you can only delete your own comments")
		return
	}
	if err := c.db.Delete(comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to delete comment")
		return
	}
	utils.NoContent(ctx)
}

// resolveTarget maps the post/answer/comment query parameters to an existing
// entity, writing the 400/404 response itself on failure.
func (c *CommentController) resolveTarget(ctx *gin.Context, post, answer, comment string) (models.TargetRef, bool) {
	ref, err := models.ParseTargetParams(post, answer, comment)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40045, "exactly one numeric target id is required")
		return models.TargetRef{}, false
	}
	if err := models.ResolveTarget(c.db, ref); err != nil {
		if errors.Is(err, models.ErrTargetNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40441, "target not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to resolve target")
		}
		return models.TargetRef{}, false
	}
	return ref, true
}

func (c *CommentController) loadComment(ctx *gin.Context) (*models.Comment, bool) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40046, "invalid comment id")
		return nil, false
	}
	var comment models.Comment
	err := c.db.Preload("Writer").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40442, "comment not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load comment")
		}
		return nil, false
	}
	return &comment, true
}
