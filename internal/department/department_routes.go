package department

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.GET("", middleware.Authorize(enforcer, "department", "read"), handler.GetAll)
		departments.GET("/:id", middleware.Authorize(enforcer, "department", "read"), handler.GetById)
		departments.POST("", middleware.Authorize(enforcer, "department", "write"), handler.Create)
		departments.PUT("/:id", middleware.Authorize(enforcer, "department", "write"), handler.Update)
		departments.DELETE("/:id", middleware.Authorize(enforcer, "department", "write"), handler.Delete)
	}
}
