package router

import (
	"dorphin/internal/api/handler"
	"dorphin/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 业务路由需要的全部 Handler
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Relation     *handler.RelationHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Favorite     *handler.FavoriteHandler
	Search       *handler.SearchHandler
	Notification *handler.NotificationHandler
}

// Setup 注册所有业务路由
// uploadLimiter 只挂在上传类接口上，其余接口不限流。
func Setup(
	r *gin.Engine,
	h *Handlers,
	verifier middleware.TokenVerifier,
	adminMiddleware gin.HandlerFunc,
	uploadLimiter gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)

		authRequired := auth.Group("", middleware.AuthRequired(verifier))
		{
			authRequired.POST("/logout", h.Auth.Logout)
			authRequired.GET("/me", h.Auth.Me)
		}
	}

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		// 主页公开，带 token 时附加关注状态
		users.GET("/:id", middleware.OptionalAuth(verifier), h.User.GetUser)

		usersAuth := users.Group("", middleware.AuthRequired(verifier))
		{
			usersAuth.GET("/me", h.User.GetMe)
			usersAuth.PUT("/:id", h.User.UpdateUser)

			// 管理员接口
			admin := usersAuth.Group("", adminMiddleware)
			{
				admin.GET("", h.User.ListUsers)
				admin.DELETE("/:id", h.User.DeleteUser)
				admin.POST("/:id/restore", h.User.RestoreUser)
				admin.POST("/:id/set-admin", h.User.SetAdmin)
			}
		}
	}

	// --- 关注关系模块 ---
	relations := v1.Group("/relations", middleware.AuthRequired(verifier))
	{
		relations.POST("/follow/:id", h.Relation.Follow)
		relations.POST("/unfollow/:id", h.Relation.Unfollow)

		relations.GET("/following/:id", h.Relation.GetFollowing)
		relations.GET("/followers/:id", h.Relation.GetFollowers)
		relations.GET("/following/:id/status", h.Relation.GetFollowStatus)

		relations.GET("/following/my/list", h.Relation.GetMyFollowing)
		relations.GET("/followers/my/list", h.Relation.GetMyFollowers)
		relations.GET("/mutual", h.Relation.GetMutualFollows)

		relations.POST("/batch/status", h.Relation.BatchFollowStatus)
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		// 公开接口（不需要登录）
		videos.GET("/feed", h.Video.GetFeed)
		videos.GET("/:id", h.Video.GetDetail)

		// 需要登录的接口
		videosAuth := videos.Group("", middleware.AuthRequired(verifier))
		{
			videosAuth.POST("/upload", uploadLimiter, h.Video.Upload)
			videosAuth.POST("/metadata", uploadLimiter, h.Video.CommitMetadata)
			videosAuth.GET("/my/list", h.Video.GetMyVideos)
			videosAuth.PUT("/:id", h.Video.UpdateVideo)
			videosAuth.DELETE("/:id", h.Video.DeleteVideo)
		}
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments")
	{
		// 评论列表公开可读
		comments.GET("/video/:video_id", h.Comment.ListByVideo)
		comments.GET("/:id/replies", h.Comment.ListReplies)

		commentsAuth := comments.Group("", middleware.AuthRequired(verifier))
		{
			commentsAuth.POST("/:video_id", h.Comment.Create)
			commentsAuth.PUT("/:id", h.Comment.Update)
			commentsAuth.DELETE("/:id", h.Comment.Delete)
			commentsAuth.GET("/my/list", h.Comment.ListMyComments)
		}
	}

	// --- 点赞模块 ---
	favorites := v1.Group("/favorites", middleware.AuthRequired(verifier))
	{
		favorites.POST("/:video_id", h.Favorite.Favorite)
		favorites.DELETE("/:video_id", h.Favorite.Unfavorite)
		favorites.GET("/:video_id/status", h.Favorite.GetStatus)
		favorites.GET("/my/list", h.Favorite.ListMyFavorites)
		favorites.GET("/my/videos", h.Favorite.GetMyFavoritedVideos)
		favorites.GET("/video/:video_id/list", h.Favorite.ListVideoFavorites)
		favorites.POST("/batch/status", h.Favorite.BatchStatus)
	}

	// --- 搜索模块 ---
	search := v1.Group("/search")
	{
		search.GET("/videos", h.Search.SearchVideos)

		searchAdmin := search.Group("", middleware.AuthRequired(verifier), adminMiddleware)
		{
			searchAdmin.POST("/sync", h.Search.SyncVideosToES)
		}
	}

	// --- 通知模块 ---
	notifications := v1.Group("/notifications", middleware.AuthRequired(verifier))
	{
		notifications.GET("", h.Notification.List)
		notifications.POST("/read", h.Notification.MarkRead)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
	}
}
