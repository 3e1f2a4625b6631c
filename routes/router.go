package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hyeonlab/unihub/config"
	"github.com/hyeonlab/unihub/controllers"
	"github.com/hyeonlab/unihub/middleware"
	"github.com/hyeonlab/unihub/permissions"
	"github.com/hyeonlab/unihub/storage"
	"github.com/hyeonlab/unihub/utils"
)

// SetupRouter builds the Gin engine with all API routes.
func SetupRouter(db *gorm.DB, store *storage.Client) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(utils.GinLogger(utils.Logger))
	r.Use(utils.GinRecovery(utils.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	perms := permissions.NewEngine()
	authCtl := controllers.NewAuthController(db)
	postCtl := controllers.NewPostController(db, perms, store)
	answerCtl := controllers.NewAnswerController(db, perms, store)
	commentCtl := controllers.NewCommentController(db, perms)
	agoraCtl := controllers.NewAgoraController(db, perms)
	mediaCtl := controllers.NewMediaController(db, store)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	{
		auth.POST("/signup", authCtl.Signup)
		auth.POST("/signin", authCtl.Signin)
		auth.POST("/refresh", authCtl.Refresh)
		auth.POST("/signout", middleware.AuthRequired(), authCtl.Signout)
		auth.POST("/deactivate", middleware.AuthRequired(), authCtl.Deactivate)
		auth.GET("/me", middleware.AuthRequired(), authCtl.Me)
		auth.PATCH("/profile", middleware.AuthRequired(), authCtl.UpdateProfile)
		auth.PUT("/password", middleware.AuthRequired(), authCtl.ChangePassword)
	}

	api.GET("/users/:id", authCtl.GetUserPublic)

	public := api.Group("")
	public.Use(middleware.AuthOptional())
	{
		public.GET("/qna/fields", postCtl.ListFields)
		public.GET("/qna/posts", postCtl.ListPosts)
		public.GET("/qna/posts/:id", postCtl.GetPost)
		public.GET("/qna/answers", answerCtl.ListAnswers)
		public.GET("/qna/answers/:id", answerCtl.GetAnswer)
		public.GET("/qna/comments", commentCtl.ListComments)
		public.GET("/qna/comments/:id", commentCtl.GetComment)
		public.GET("/agora/lectures", agoraCtl.ListLectures)
		public.GET("/agora/lectures/:id", agoraCtl.GetLecture)
		public.GET("/agora/stories", agoraCtl.ListStories)
		public.GET("/agora/stories/:id", agoraCtl.GetStory)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	{
		protected.POST("/qna/posts", postCtl.CreatePost)
		protected.PUT("/qna/posts/:id", postCtl.UpdatePost)
		protected.PATCH("/qna/posts/:id", postCtl.PatchPost)
		protected.DELETE("/qna/posts/:id", postCtl.DeletePost)

		protected.POST("/qna/answers", answerCtl.CreateAnswer)
		protected.PUT("/qna/answers/:id", answerCtl.UpdateAnswer)
		protected.PATCH("/qna/answers/:id", answerCtl.UpdateAnswer)
		protected.DELETE("/qna/answers/:id", answerCtl.DeleteAnswer)

		protected.POST("/qna/comments", commentCtl.CreateComment)
		protected.PUT("/qna/comments/:id", commentCtl.UpdateComment)
		protected.PATCH("/qna/comments/:id", commentCtl.UpdateComment)
		protected.DELETE("/qna/comments/:id", commentCtl.DeleteComment)

		protected.POST("/agora/stories", agoraCtl.CreateStory)
		protected.PUT("/agora/stories/:id", agoraCtl.UpdateStory)
		protected.PATCH("/agora/stories/:id", agoraCtl.UpdateStory)
		protected.DELETE("/agora/stories/:id", agoraCtl.DeleteStory)

		protected.POST("/media/presigned", mediaCtl.CreatePresigned)
	}

	return r
}
