package balance

import (
	"go-leavetrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.Authorize(enforcer, "balance", "read"), handler.List)
		balances.GET("/available", middleware.Authorize(enforcer, "balance", "read"), handler.GetAvailable)
		balances.POST("/allocate", middleware.Authorize(enforcer, "balance", "allocate"), handler.Allocate)
		balances.POST("/adjust", middleware.Authorize(enforcer, "balance", "adjust"), handler.Adjust)
	}
}
