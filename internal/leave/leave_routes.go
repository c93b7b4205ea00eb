package leave

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.Authorize(enforcer, "leave", "read"), handler.List)
		leaves.GET("/pending", middleware.Authorize(enforcer, "leave", "approve"), handler.ListPending)
		leaves.GET("/team-calendar", middleware.Authorize(enforcer, "leave", "approve"), handler.TeamCalendar)
		leaves.GET("/:id", middleware.Authorize(enforcer, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.Authorize(enforcer, "leave", "create"), handler.Apply)
		leaves.POST("/:id/approve", middleware.Authorize(enforcer, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.Authorize(enforcer, "leave", "approve"), handler.Reject)
		leaves.POST("/:id/cancel", middleware.Authorize(enforcer, "leave", "cancel"), handler.Cancel)
	}
}
