package routes

import (
	"safehome_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
) {
	// Health вне версионированного API
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.OrderHandler.RegisterRoutes(api)
		appHandlers.AnalysisHandler.RegisterRoutes(api)
		appHandlers.CapsuleHandler.RegisterRoutes(api)
		appHandlers.SolutionHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
	}
}
