package routes

import (
	"govx-be/controllers"
	"govx-be/middlewares"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the authenticated user's own resources
func UserRoutes(r *gin.Engine) {
	user := r.Group("/api/user", middlewares.AuthMiddleware())
	{
		user.GET("/issues", controllers.GetIssuesByUser)
		user.GET("/notifications", controllers.GetNotifications)
		user.PATCH("/notifications/read-all", controllers.MarkAllNotificationsRead)
		user.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)
	}
}
