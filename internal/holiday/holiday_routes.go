package holiday

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.Authorize(enforcer, "holiday", "read"), handler.List)
		holidays.POST("", middleware.Authorize(enforcer, "holiday", "write"), handler.Create)
		holidays.PUT("/:id", middleware.Authorize(enforcer, "holiday", "write"), handler.Update)
		holidays.DELETE("/:id", middleware.Authorize(enforcer, "holiday", "write"), handler.Delete)
	}
}
