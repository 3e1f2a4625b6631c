package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hyeonlab/unihub/middleware"
	"github.com/hyeonlab/unihub/models"
	"github.com/hyeonlab/unihub/utils"
)

// AuthController handles account lifecycle and token endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Signup registers a local account and returns an initial token pair.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Username  string `json:"username" binding:"required,min=2,max=30"`
		Password  string `json:"password" binding:"required,min=8"`
		BirthDate string `json:"birth_date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		t, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			utils.ValidationError(ctx, 40011, "birth_date", "birth_date must be YYYY-MM-DD")
			return
		}
		birthDate = &t
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		BirthDate:    birthDate,
		IsActive:     true,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.ValidationError(ctx, 40012, "email", "an account with this email already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create account")
		return
	}

	pair, err := utils.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to issue tokens")
		return
	}
	utils.Created(ctx, gin.H{"user": user, "token": pair})
}

// Signin authenticates with email and password.
func (a *AuthController) Signin(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}

	var user models.User
	err := a.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "check your email or password")
		return
	}

	pair, err := utils.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to issue tokens")
		return
	}
	utils.Success(ctx, gin.H{"user": user, "token": pair})
}

// Signout blacklists the presented access token plus the refresh token from
// the request body, so neither can be replayed.
func (a *AuthController) Signout(ctx *gin.Context) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	_ = ctx.ShouldBindJSON(&req)

	if raw, ok := ctx.Get(middleware.ContextTokenKey); ok {
		if token, ok := raw.(string); ok {
			blacklistUntilExpiry(token)
		}
	}
	if req.Refresh != "" {
		blacklistUntilExpiry(req.Refresh)
	}
	utils.Success(ctx, gin.H{"message": "signed out"})
}

// Refresh rotates a refresh token: the old one is blacklisted and a fresh
// pair is issued.
func (a *AuthController) Refresh(ctx *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid request payload")
		return
	}

	if utils.IsTokenBlacklisted(req.Refresh) {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "token revoked")
		return
	}
	claims, err := utils.ParseToken(req.Refresh)
	if err != nil || claims.TokenType != utils.TokenRefresh {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "invalid refresh token")
		return
	}

	var user models.User
	if err := a.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "account no longer active")
		return
	}

	blacklistUntilExpiry(req.Refresh)

	pair, err := utils.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to issue tokens")
		return
	}
	utils.Success(ctx, gin.H{"token": pair})
}

// Deactivate disables the account after a password confirmation and revokes
// the presented tokens.
func (a *AuthController) Deactivate(ctx *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
		Refresh  string `json:"refresh"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "check your email or password")
		return
	}

	if err := a.db.Model(&user).Update("is_active", false).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to deactivate account")
		return
	}
	if raw, ok := ctx.Get(middleware.ContextTokenKey); ok {
		if token, ok := raw.(string); ok {
			blacklistUntilExpiry(token)
		}
	}
	if req.Refresh != "" {
		blacklistUntilExpiry(req.Refresh)
	}
	utils.Success(ctx, gin.H{"message": "account deactivated"})
}

// Me returns the authenticated user's own profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// UpdateProfile patches mutable profile fields.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var req struct {
		Username     *string `json:"username"`
		ProfileImage *string `json:"profile_image"`
		BirthDate    *string `json:"birth_date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	if req.Username != nil {
		if len(*req.Username) < 2 || len(*req.Username) > 30 {
			utils.ValidationError(ctx, 40017, "username", "username must be 2-30 characters")
			return
		}
		user.Username = *req.Username
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}
	if req.BirthDate != nil {
		t, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			utils.ValidationError(ctx, 40011, "birth_date", "birth_date must be YYYY-MM-DD")
			return
		}
		user.BirthDate = &t
	}

	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to update profile")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// ChangePassword replaces the password after verifying the current one.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	var req struct {
		Current string `json:"current" binding:"required"`
		New     string `json:"new" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40018, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Current) {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "current password does not match")
		return
	}

	hash, err := utils.HashPassword(req.New)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}
	if err := a.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to change password")
		return
	}
	utils.Success(ctx, gin.H{"message": "password changed"})
}

// GetUserPublic returns the public profile of any user. Viewing a user is
// always permitted; mutation endpoints only ever touch the caller's own row.
func (a *AuthController) GetUserPublic(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40019, "invalid user id")
		return
	}
	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user.Public()})
}

// blacklistUntilExpiry revokes a token for its remaining lifetime. Unparsable
// tokens are ignored; they cannot authenticate anyway.
func blacklistUntilExpiry(token string) {
	claims, err := utils.ParseToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	utils.BlacklistToken(token, claims.ExpiresAt.Time)
}
