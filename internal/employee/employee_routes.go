package employee

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.Authorize(enforcer, "employee", "read"), handler.GetAll)
		employees.GET("/:id", middleware.Authorize(enforcer, "employee", "read"), handler.GetById)
		employees.POST("", middleware.Authorize(enforcer, "employee", "write"), handler.Create)
		employees.PUT("/:id", middleware.Authorize(enforcer, "employee", "write"), handler.Update)
		employees.POST("/:id/deactivate", middleware.Authorize(enforcer, "employee", "write"), handler.Deactivate)
		employees.POST("/:id/activate", middleware.Authorize(enforcer, "employee", "write"), handler.Activate)
	}
}
