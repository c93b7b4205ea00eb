package attendance

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	records := r.Group("/attendance")
	records.Use(middleware.AuthMiddleware())
	{
		records.GET("", middleware.Authorize(enforcer, "attendance", "read"), handler.List)
		records.GET("/mine", middleware.Authorize(enforcer, "attendance", "read"), handler.ListMine)
		records.GET("/monthly", middleware.Authorize(enforcer, "attendance", "read"), handler.MonthlyView)
		records.POST("/mark", middleware.Authorize(enforcer, "attendance", "mark"), handler.MarkSelf)
		records.POST("/correct", middleware.Authorize(enforcer, "attendance", "correct"), handler.MarkOrCorrect)
	}
}
