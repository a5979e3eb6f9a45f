package routes

import (
	"govx-be/controllers"
	"govx-be/middlewares"

	"github.com/gin-gonic/gin"
)

// DepartmentRoutes sets up the department staff workflow routes
func DepartmentRoutes(r *gin.Engine) {
	dept := r.Group("/api/dept", middlewares.AuthMiddleware(), middlewares.RequireDepartment())
	{
		dept.GET("/issues", controllers.GetDepartmentIssues)
		dept.POST("/issues/:id/review", controllers.ReviewIssue)
		dept.POST("/issues/:id/accept", controllers.AcceptIssue)
		dept.POST("/issues/:id/decline", controllers.DeclineIssue)
		dept.POST("/issues/:id/start", controllers.StartIssue)
		dept.POST("/issues/:id/resolve", controllers.ResolveIssue)
		dept.POST("/issues/:id/delay", controllers.DelayIssue)
		dept.POST("/issues/:id/resume", controllers.ResumeIssue)
		dept.POST("/issues/:id/assign", controllers.AssignIssue)
		dept.POST("/issues/:id/proof", controllers.AppendProof)
		dept.PATCH("/issues/:id/priority", controllers.OverridePriority)
	}
}
