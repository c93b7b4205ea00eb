package designation

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	designations := r.Group("/designations")
	designations.Use(middleware.AuthMiddleware())
	{
		designations.GET("", middleware.Authorize(enforcer, "designation", "read"), handler.GetAll)
		designations.GET("/:id", middleware.Authorize(enforcer, "designation", "read"), handler.GetById)
		designations.POST("", middleware.Authorize(enforcer, "designation", "write"), handler.Create)
		designations.PUT("/:id", middleware.Authorize(enforcer, "designation", "write"), handler.Update)
		designations.DELETE("/:id", middleware.Authorize(enforcer, "designation", "write"), handler.Delete)
	}
}
