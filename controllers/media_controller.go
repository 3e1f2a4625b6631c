package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyeonlab/unihub/config"
	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/storage"
	"github.com/hyeonlab/unihub/utils"
)

// MediaController issues batch presigned-upload grants. Each grant is
// recorded as an immutable Directory row.
type MediaController struct {
	db    *gorm.DB
	store *storage.Client
}

// NewMediaController creates a MediaController.
func NewMediaController(db *gorm.DB, store *storage.Client) *MediaController {
	return &MediaController{db: db, store: store}
}

// CreatePresigned reserves a fresh storage directory for the caller and signs
// one upload URL per filename under it.
func (m *MediaController) CreatePresigned(ctx *gin.Context) {
	var req struct {
		Filenames []string `json:"filenames" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	cfg := config.Get()
	if len(req.Filenames) > cfg.UploadMaxFiles {
		utils.ValidationError(ctx, 40061, "filenames",
			fmt.Sprintf("at most %d files per batch", cfg.UploadMaxFiles))
		return
	}

	slugged := make([]string, 0, len(req.Filenames))
	for _, name := range req.Filenames {
		slug := utils.Slugify(name)
		if slug == "" {
			utils.ValidationError(ctx, 40062, "filenames", "filename slugifies to empty")
			return
		}
		slugged = append(slugged, slug)
	}

	userID, _ := getUserID(ctx)
	directory := models.Directory{
		UploaderID: userID,
		Path:       fmt.Sprintf("media/%d/%s/", userID, uuid.NewString()),
		Filenames:  slugged,
	}
	if err := m.db.Create(&directory).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to record upload directory")
		return
	}

	uploads := make([]*storage.PresignedUpload, 0, len(slugged))
	for _, name := range slugged {
		upload, err := m.store.PresignUpload(directory.Path + name)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to presign upload")
			return
		}
		uploads = append(uploads, upload)
	}

	utils.Created(ctx, gin.H{"directory": directory, "presigned_uploads": uploads})
}
