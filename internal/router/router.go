package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/postboard/internal/handler"
	"github.com/postboard/internal/metrics"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	secret := strings.TrimSpace(sessionSecret)
	if secret == "" {
		secret = "postboard-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(handler.SessionCookieName, store))

	// 上传的文章图片
	if uploads := api.Uploads(); uploads != nil {
		r.Static(uploads.URLPath(), uploads.Dir())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", metrics.Handler())

	auth := r.Group("/auth")
	{
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
		auth.GET("/profile", api.AuthRequired(), api.Profile)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", api.ListPosts)
		posts.POST("", api.CreatePost)
		posts.GET("/:post_id", api.GetPost)
		posts.PATCH("/:post_id", api.UpdatePost)
		posts.DELETE("/:post_id", api.DeletePost)
		posts.POST("/:post_id/image", api.UploadPostImage)

		posts.GET("/:post_id/comments", api.ListComments)
		posts.POST("/:post_id/comments", api.CreateComment)
		posts.GET("/:post_id/comments/:comment_id", api.GetComment)
		posts.PATCH("/:post_id/comments/:comment_id", api.UpdateComment)
		posts.DELETE("/:post_id/comments/:comment_id", api.DeleteComment)

		posts.GET("/:post_id/likes", api.GetLikes)
		posts.POST("/:post_id/likes", api.ToggleLike)
		posts.GET("/:post_id/likes/status", api.LikeStatus)

		posts.GET("/:post_id/views", api.GetViews)
		posts.POST("/:post_id/views", api.RecordView)

		posts.GET("/:post_id/comment-count", api.GetCommentCount)
		posts.POST("/:post_id/comment-count", api.IncrementCommentCount)
		posts.DELETE("/:post_id/comment-count", api.DecrementCommentCount)
	}

	return r
}
