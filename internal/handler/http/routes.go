package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the auth and blog routes on api. requireAuth guards
// the caller-scoped routes.
func RegisterRoutes(api gin.IRouter, auth *AuthHandler, articles *ArticleHandler, requireAuth gin.HandlerFunc) {
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", auth.Signup)
		authRoutes.POST("/login", auth.Login)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", articles.List)
		blog.GET("/:id", articles.Read)
		blog.GET("/read/:id", articles.Read)
		blog.GET("/user", requireAuth, articles.ListMine)
		blog.POST("", requireAuth, articles.Create)
		blog.PATCH("/:id", requireAuth, articles.Update)
		blog.POST("/publish/:id", requireAuth, articles.Publish)
		blog.DELETE("/:id", requireAuth, articles.Delete)
	}
}
