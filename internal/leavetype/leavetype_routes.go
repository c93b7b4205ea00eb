package leavetype

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.Authorize(enforcer, "leavetype", "read"), handler.GetAll)
		types.GET("/:id", middleware.Authorize(enforcer, "leavetype", "read"), handler.GetById)
		types.POST("", middleware.Authorize(enforcer, "leavetype", "write"), handler.Create)
		types.PUT("/:id", middleware.Authorize(enforcer, "leavetype", "write"), handler.Update)
		types.DELETE("/:id", middleware.Authorize(enforcer, "leavetype", "write"), handler.Delete)
	}
}
