package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/internal/entities"
	"inventory-system/pkg/middleware"
)

func runAssetRouter(secureGroup *echo.Group, ctrl *controllers.AssetController, authMW *middleware.AuthMiddleware) {
	viewer := authMW.RequireRole(entities.RoleViewer)
	manager := authMW.RequireRole(entities.RoleManager)
	admin := authMW.RequireRole(entities.RoleAdmin)

	assets := secureGroup.Group("/assets")
	assets.GET("", ctrl.GetAssets, viewer)
	assets.POST("", ctrl.CreateAsset, manager)
	assets.GET("/export", ctrl.ExportAssets, viewer)
	assets.GET("/:id", ctrl.FindAsset, viewer)
	assets.PUT("/:id", ctrl.UpdateAsset, manager)
	assets.DELETE("/:id", ctrl.DeleteAsset, admin)
	assets.GET("/:id/transfers", ctrl.GetAssetTransfers, viewer)
	assets.GET("/:id/repairs", ctrl.GetAssetRepairs, viewer)
}

func runTransferRouter(secureGroup *echo.Group, ctrl *controllers.TransferController, authMW *middleware.AuthMiddleware) {
	transfers := secureGroup.Group("/transfers")
	transfers.GET("", ctrl.GetTransfers, authMW.RequireRole(entities.RoleViewer))
	transfers.POST("", ctrl.CreateTransfer, authMW.RequireRole(entities.RoleOperator))
	transfers.GET("/:id", ctrl.FindTransfer, authMW.RequireRole(entities.RoleViewer))
}

func runRepairRouter(secureGroup *echo.Group, ctrl *controllers.RepairController, authMW *middleware.AuthMiddleware) {
	viewer := authMW.RequireRole(entities.RoleViewer)
	operator := authMW.RequireRole(entities.RoleOperator)

	repairs := secureGroup.Group("/repairs")
	repairs.GET("", ctrl.GetRepairs, viewer)
	repairs.POST("", ctrl.CreateRepair, operator)
	repairs.GET("/active", ctrl.GetActiveRepairs, viewer)
	repairs.GET("/:id", ctrl.FindRepair, viewer)
	repairs.PUT("/:id", ctrl.UpdateRepair, operator)
	repairs.POST("/:id/complete", ctrl.CompleteRepair, operator)
	repairs.DELETE("/:id", ctrl.DeleteRepair, authMW.RequireRole(entities.RoleManager))
}

func runUserRouter(secureGroup *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	users := secureGroup.Group("/users", authMW.RequireRole(entities.RoleAdmin))
	users.GET("", ctrl.GetUsers)
	users.POST("", ctrl.CreateUser)
	users.GET("/:id", ctrl.FindUser)
	users.PUT("/:id", ctrl.UpdateUser)
	users.DELETE("/:id", ctrl.DeleteUser)
}

func runDatabaseRouter(secureGroup *echo.Group, ctrl *controllers.DatabaseController, authMW *middleware.AuthMiddleware) {
	db := secureGroup.Group("/database", authMW.RequireRole(entities.RoleAdmin))
	db.POST("/test-connection", ctrl.TestConnection)
	db.POST("/execute-query", ctrl.ExecuteQuery)
	db.GET("/test-presets", ctrl.TestPresets)
	db.GET("/environment", ctrl.Environment)
}

func runHealthRouter(api *echo.Group, ctrl *controllers.HealthController) {
	api.GET("/health", ctrl.Health)
}
