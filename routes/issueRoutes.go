package routes

import (
	"govx-be/controllers"
	"govx-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the citizen-facing issue routes
func IssueRoutes(r *gin.Engine) {
	issues := r.Group("/api/issues")
	{
		issues.GET("", controllers.GetAllIssues)
		issues.GET("/analytics", controllers.GetIssueAnalytics)
		issues.GET("/recent", controllers.RecentIssues)
		issues.POST("", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(10), controllers.CreateIssue)
		issues.GET("/:id", controllers.GetIssue)
		issues.PUT("/:id", middlewares.AuthMiddleware(), controllers.UpdateIssue)
		issues.POST("/:id/like", middlewares.AuthMiddleware(), controllers.LikeIssue)
		issues.POST("/:id/comments", middlewares.AuthMiddleware(), controllers.CommentIssue)
		issues.GET("/:id/comments", controllers.GetComments)
		issues.POST("/:id/repost", middlewares.AuthMiddleware(), controllers.RepostIssue)
	}
}
