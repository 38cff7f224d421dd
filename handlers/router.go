package handlers

import (
	"net/http"

	"multiblog/middleware"
	"multiblog/models"
	"multiblog/repositories"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AuthHandler *AuthHandler
	PostHandler *PostHandler
	TagHandler  *TagHandler
	TokenRepo   repositories.TokenRepository
	// StaticDir is served under StaticPrefix when both are set.
	StaticPrefix string
	StaticDir    string
}

func SetupRouter(router *gin.Engine, cfg RouterConfig) *gin.Engine {
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if cfg.StaticPrefix != "" && cfg.StaticDir != "" {
		router.Static(cfg.StaticPrefix, cfg.StaticDir)
	}

	authRequired := middleware.AuthMiddleware(cfg.TokenRepo)
	canAuthor := middleware.RequireRole(string(models.RoleAuthor), string(models.RoleAdmin))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", cfg.AuthHandler.Register)
			auth.POST("/login", cfg.AuthHandler.Login)
			auth.POST("/logout", authRequired, cfg.AuthHandler.Logout)
		}

		v1.GET("/profile", authRequired, cfg.AuthHandler.GetProfile)

		posts := v1.Group("/posts")
		{
			posts.GET("", cfg.PostHandler.GetPosts)
			posts.GET("/search", cfg.PostHandler.SearchPosts)
			posts.GET("/:id", cfg.PostHandler.GetPost)
			posts.POST("", authRequired, canAuthor, cfg.PostHandler.CreatePost)
			posts.PUT("/:id", authRequired, cfg.PostHandler.UpdatePost)
			posts.DELETE("/:id", authRequired, cfg.PostHandler.DeletePost)
		}

		v1.GET("/authors/:id/posts", cfg.PostHandler.GetPostsByAuthor)

		tags := v1.Group("/tags")
		{
			tags.GET("", cfg.TagHandler.GetTags)
			tags.GET("/:name", cfg.TagHandler.GetTag)
			tags.GET("/:name/posts", cfg.PostHandler.GetPostsByTag)
		}

		v1.GET("/api/posts", cfg.PostHandler.APIListing)
	}

	return router
}
