package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/permissions"
	"github.com/hyeonlab/unihub/utils"
)

// AgoraController serves the lecture-review board: read-only lectures and
// CRUD stories.
type AgoraController struct {
	db    *gorm.DB
	perms *permissions.Engine
}

// NewAgoraController creates an AgoraController.
func NewAgoraController(db *gorm.DB, perms *permissions.Engine) *AgoraController {
	return &AgoraController{db: db, perms: perms}
}

// ListLectures returns a page-number paginated lecture listing ordered by
// name, with search and university/term filters. Unfiltered pages are cached.
func (a *AgoraController) ListLectures(ctx *gin.Context) {
	page := 1
	if n, err := strconv.Atoi(ctx.Query("page")); err == nil && n > 0 {
		page = n
	}
	pageSize := utils.PageSize(ctx.Query("page_size"), 10)

	search := strings.TrimSpace(ctx.Query("search"))
	university := strings.TrimSpace(ctx.Query("university"))
	year := strings.TrimSpace(ctx.Query("year"))
	season := strings.TrimSpace(ctx.Query("season"))
	filtered := search != "" || university != "" || year != "" || season != ""

	cacheKey := fmt.Sprintf("cache:lectures:list:page=%d:size=%d", page, pageSize)
	if !filtered {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	q := a.db.Model(&models.Lecture{}).
		Preload("University").Preload("College").Preload("Major").Preload("Semesters")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("lectures.name LIKE ? OR lectures.lecture_id LIKE ? OR lectures.instructor LIKE ?", like, like, like)
	}
	if university != "" {
		q = q.Joins("JOIN universities ON universities.id = lectures.university_id").
			Where("universities.name LIKE ?", "%"+university+"%")
	}
	if year != "" || season != "" {
		q = q.Joins("JOIN lecture_semesters ls ON ls.lecture_id = lectures.id").
			Joins("JOIN semesters ON semesters.id = ls.semester_id").
			Distinct("lectures.*")
		if year != "" {
			q = q.Where("semesters.year = ?", year)
		}
		if season != "" {
			q = q.Where("semesters.season = ?", season)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to count lectures")
		return
	}

	var lectures []models.Lecture
	err := q.Order("lectures.name").Offset((page - 1) * pageSize).Limit(pageSize).Find(&lectures).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list lectures")
		return
	}

	payload := gin.H{
		"items": lectures,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	if !filtered {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetLecture returns a single lecture with its semesters.
func (a *AgoraController) GetLecture(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid lecture id")
		return
	}
	var lecture models.Lecture
	err := a.db.Preload("University").Preload("College").Preload("Major").Preload("Semesters").
		First(&lecture, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "lecture not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load lecture")
		}
		return
	}
	utils.Success(ctx, gin.H{"lecture": lecture})
}

// ListStories returns cursor-paginated lecture reviews, newest first. The
// unfiltered first page is cached and invalidated on every story write.
func (a *AgoraController) ListStories(ctx *gin.Context) {
	lecture := strings.TrimSpace(ctx.Query("lecture"))
	writer := strings.TrimSpace(ctx.Query("writer"))
	cursor := ctx.Query("cursor")
	pageSize := utils.PageSize(ctx.Query("page_size"), 10)

	cacheKey := fmt.Sprintf("cache:stories:first:size=%d", pageSize)
	cacheable := lecture == "" && writer == "" && cursor == ""
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	q := a.db.Model(&models.Story{}).Preload("Writer")
	if lecture != "" {
		q = q.Where("lecture_id = ?", lecture)
	}
	if writer != "" {
		q = q.Where("writer_id = ?", writer)
	}

	q, err := utils.ApplyCursor(q, cursor)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid cursor")
		return
	}

	var stories []models.Story
	if err := q.Order("created_at DESC, id DESC").Limit(pageSize + 1).Find(&stories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to list stories")
		return
	}

	next := ""
	if len(stories) > pageSize {
		stories = stories[:pageSize]
		last := stories[len(stories)-1]
		next = utils.EncodeCursor(last.CreatedAt, last.ID)
	}
	payload := gin.H{"items": stories, "next": next}
	if cacheable {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 5*time.Minute)
	}
	utils.Success(ctx, payload)
}

// CreateStory posts a review on a lecture.
func (a *AgoraController) CreateStory(ctx *gin.Context) {
	var req struct {
		Lecture uint   `json:"lecture" binding:"required"`
		Title   string `json:"title" binding:"required,max=150"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid request payload")
		return
	}

	var lecture models.Lecture
	if err := a.db.First(&lecture, req.Lecture).Error; err != nil {
		utils.ValidationError(ctx, 40053, "lecture", "no such lecture")
		return
	}

	userID, _ := getUserID(ctx)
	story := models.Story{
		LectureID: lecture.ID,
		WriterID:  userID,
		Title:     utils.Sanitize(strings.TrimSpace(req.Title)),
		Content:   utils.Sanitize(req.Content),
	}
	if err := a.db.Create(&story).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to create story")
		return
	}
	a.db.Preload("Writer").First(&story, story.ID)
	utils.InvalidateByPrefix("cache:stories:")
	utils.Created(ctx, gin.H{"story": story})
}

// GetStory returns a single review.
func (a *AgoraController) GetStory(ctx *gin.Context) {
	story, ok := a.loadStory(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"story": story})
}

// UpdateStory edits a review's title and content.
func (a *AgoraController) UpdateStory(ctx *gin.Context) {
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40054, "invalid request payload")
		return
	}

	story, ok := a.loadStory(ctx)
	if !ok {
		return
	}
	if !a.perms.Allows(currentUserID(ctx), permissions.Change, story) {
		utils.Error(ctx, http.StatusForbidden, 40350, "you can only update your own stories")
		return
	}

	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" || len(title) > 150 {
			utils.ValidationError(ctx, 40055, "title", "title must be 1-150 characters")
			return
		}
		story.Title = title
	}
	if req.Content != nil {
		story.Content = utils.Sanitize(*req.Content)
	}
	if err := a.db.Save(story).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to update story")
		return
	}
	utils.InvalidateByPrefix("cache:stories:")
	utils.Success(ctx, gin.H{"story": story})
}

// DeleteStory removes a review.
func (a *AgoraController) DeleteStory(ctx *gin.Context) {
	story, ok := a.loadStory(ctx)
	if !ok {
		return
	}
	if !a.perms.Allows(currentUserID(ctx), permissions.Delete, story) {
		utils.Error(ctx, http.StatusForbidden, 40351, "you can only delete your own stories")
		return
	}
	if err := a.db.Delete(story).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to delete story")
		return
	}
	utils.InvalidateByPrefix("cache:stories:")
	utils.NoContent(ctx)
}

func (a *AgoraController) loadStory(ctx *gin.Context) (*models.Story, bool) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40056, "invalid story id")
		return nil, false
	}
	var story models.Story
	err := a.db.Preload("Writer").First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40451, "story not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50057, "failed to load story")
		}
		return nil, false
	}
	return &story, true
}
