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

const postPageSize = 10

// PostController manages Q&A posts, including the answer acceptance state and
// the per-post image prefix in object storage.
type PostController struct {
	db    *gorm.DB
	perms *permissions.Engine
	store *storage.Client
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB, perms *permissions.Engine, store *storage.Client) *PostController {
	return &PostController{db: db, perms: perms, store: store}
}

// ListFields returns the topic category tree.
func (p *PostController) ListFields(ctx *gin.Context) {
	var fields []models.Field
	if err := p.db.Where("parent_id IS NULL").Preload("Children.Children").Find(&fields).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list fields")
		return
	}
	utils.Success(ctx, gin.H{"fields": fields})
}

// ListPosts returns a cursor-paginated, newest-first post listing. Private
// posts are visible to their writers only.
func (p *PostController) ListPosts(ctx *gin.Context) {
	pageSize := utils.PageSize(ctx.Query("page_size"), postPageSize)
	userID := currentUserID(ctx)

	q := p.db.Model(&models.Post{}).Preload("Writer").Preload("Field").
		Where("is_private = ? OR writer_id = ?", false, userID)

	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if field := strings.TrimSpace(ctx.Query("field")); field != "" {
		q = q.Joins("JOIN fields ON fields.id = posts.field_id").
			Where("LOWER(fields.name) = LOWER(?)", field)
	}
	if tag := strings.TrimSpace(ctx.Query("tag")); tag != "" {
		// Tags are stored as a JSON string array.
		q = q.Where(`tags LIKE ?`, `%"`+tag+`"%`)
	}
	if writer := strings.TrimSpace(ctx.Query("writer")); writer != "" {
		q = q.Where("posts.writer_id = ?", writer)
	}

	q, err := utils.ApplyCursor(q, ctx.Query("cursor"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid cursor")
		return
	}

	var posts []models.Post
	if err := q.Order("created_at DESC, id DESC").Limit(pageSize + 1).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	next := ""
	if len(posts) > pageSize {
		posts = posts[:pageSize]
		last := posts[len(posts)-1]
		next = utils.EncodeCursor(last.CreatedAt, last.ID)
	}
	utils.Success(ctx, gin.H{"items": posts, "next": next})
}

// GetPost returns a single post together with its image prefix.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	if !p.perms.Allows(currentUserID(ctx), permissions.View, post) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you do not have access to this post")
		return
	}
	utils.Success(ctx, gin.H{
		"post":         post,
		"image_prefix": storage.ImagePrefix("post", post.ID),
	})
}

// CreatePost creates a question. Any client-supplied accepted answer is
// ignored: a fresh post always starts with none.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Field     string   `json:"field"`
		Title     string   `json:"title" binding:"required,max=50"`
		Content   string   `json:"content" binding:"required"`
		Tags      []string `json:"tags"`
		IsPrivate bool     `json:"is_private"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	fieldID, ok := p.resolveField(ctx, req.Field)
	if !ok {
		return
	}

	userID, _ := getUserID(ctx)
	post := models.Post{
		FieldID:   fieldID,
		WriterID:  &userID,
		Title:     utils.Sanitize(strings.TrimSpace(req.Title)),
		Content:   utils.Sanitize(req.Content),
		Tags:      req.Tags,
		IsPrivate: req.IsPrivate,
	}
	if post.Title == "" {
		utils.ValidationError(ctx, 40022, "title", "title cannot be empty")
		return
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create post")
		return
	}
	p.db.Preload("Writer").Preload("Field").First(&post, post.ID)

	utils.Created(ctx, gin.H{
		"post":         post,
		"image_upload": p.presignImage(ctx, "post", post.ID),
	})
}

// UpdatePost replaces a post. The stored image prefix is cleared because a
// full update supersedes previously attached images.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	p.updatePost(ctx, false)
}

// PatchPost partially updates a post; attached images are kept.
func (p *PostController) PatchPost(ctx *gin.Context) {
	p.updatePost(ctx, true)
}

func (p *PostController) updatePost(ctx *gin.Context, partial bool) {
	var req struct {
		Field          *string   `json:"field"`
		Title          *string   `json:"title"`
		Content        *string   `json:"content"`
		Tags           *[]string `json:"tags"`
		IsPrivate      *bool     `json:"is_private"`
		AcceptedAnswer *uint     `json:"accepted_answer"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}

	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	userID := currentUserID(ctx)
	if !p.perms.Allows(userID, permissions.Change, post) {
		utils.Error(ctx, http.StatusForbidden, 40321, "you can only update your own posts")
		return
	}

	if !partial || req.Field != nil {
		name := ""
		if req.Field != nil {
			name = *req.Field
		}
		fieldID, ok := p.resolveField(ctx, name)
		if !ok {
			return
		}
		post.FieldID = fieldID
	}
	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" || len(title) > 50 {
			utils.ValidationError(ctx, 40022, "title", "title must be 1-50 characters")
			return
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = utils.Sanitize(*req.Content)
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.IsPrivate != nil {
		post.IsPrivate = *req.IsPrivate
	}
	if req.AcceptedAnswer != nil {
		if !p.applyAcceptance(ctx, post, *req.AcceptedAnswer) {
			return
		}
	}

	if err := p.db.Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update post")
		return
	}
	if !partial {
		if err := p.store.DeletePrefix(storage.ImagePrefix("post", post.ID)); err != nil {
			utils.Sugar.Warnf("failed to clear image prefix for post %d: %v", post.ID, err)
		}
	}
	p.db.Preload("Writer").Preload("Field").First(post, post.ID)

	utils.Success(ctx, gin.H{
		"post":         post,
		"image_upload": p.presignImage(ctx, "post", post.ID),
	})
}

// applyAcceptance validates and applies an answer acceptance transition.
// Zero clears the acceptance back to none.
func (p *PostController) applyAcceptance(ctx *gin.Context, post *models.Post, answerID uint) bool {
	if answerID == 0 {
		post.AcceptedAnswerID = nil
		return true
	}
	var answer models.Answer
	if err := p.db.First(&answer, answerID).Error; err != nil {
		utils.ValidationError(ctx, 40024, "accepted_answer", "only answers on this post can be accepted")
		return false
	}
	if err := models.ValidateAcceptance(post, &answer); err != nil {
		switch {
		case errors.Is(err, models.ErrSelfAccept):
			utils.ValidationError(ctx, 40025, "accepted_answer", "cannot accept your own answer")
		default:
			utils.ValidationError(ctx, 40024, "accepted_answer", "only answers on this post can be accepted")
		}
		return false
	}
	post.AcceptedAnswerID = &answerID
	return true
}

// DeletePost removes a post and its stored images.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	if !p.perms.Allows(currentUserID(ctx), permissions.Delete, post) {
		utils.Error(ctx, http.StatusForbidden, 40322, "you can only delete your own posts")
		return
	}
	if err := p.db.Delete(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete post")
		return
	}
	if err := p.store.DeletePrefix(storage.ImagePrefix("post", post.ID)); err != nil {
		utils.Sugar.Warnf("failed to clear image prefix for post %d: %v", post.ID, err)
	}
	utils.NoContent(ctx)
}

func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, bool) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid post id")
		return nil, false
	}
	var post models.Post
	err := p.db.Preload("Writer").Preload("Field").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load post")
		}
		return nil, false
	}
	return &post, true
}

// resolveField maps a topic name to its Field row, case-insensitively. An
// empty name means "no field". Writes the error response itself on failure.
func (p *PostController) resolveField(ctx *gin.Context, name string) (*uint, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, true
	}
	var field models.Field
	if err := p.db.Where("LOWER(name) = LOWER(?)", name).First(&field).Error; err != nil {
		utils.ValidationError(ctx, 40027, "field", "no such field")
		return nil, false
	}
	return &field.ID, true
}

// presignImage signs one upload slot under the resource's image prefix.
// Returns nil when object storage is not configured.
func (p *PostController) presignImage(ctx *gin.Context, kind string, id uint) *storage.PresignedUpload {
	upload, err := p.store.PresignUpload(storage.ImagePrefix(kind, id) + uuid.NewString())
	if err != nil {
		utils.Sugar.Warnf("failed to presign %s image upload for %d: %v", kind, id, err)
		return nil
	}
	return upload
}
