package routes

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/utils"
)

func InitRouter(e *echo.Echo, app *App) {
	logger := app.Logger
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	if timeout := app.Config.Database.RequestTimeout; timeout > 0 {
		api.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: timeout}))
	}

	// --- 1. СЕРВИСЫ ---
	authService := services.NewAuthService(
		app.Accounts.Users(),
		app.Authenticator(),
		app.Cache,
		app.JWT,
		app.Config.Auth,
		logger.Named("auth"),
	)
	assetService := services.NewAssetService(app.Storage, logger.Named("assets"))
	transferService := services.NewTransferService(app.Storage, app.Config.Storage.AssetStatusSync, logger.Named("transfers"))
	repairService := services.NewRepairService(app.Storage, app.Config.Storage.AssetStatusSync, logger.Named("repairs"))
	userService := services.NewUserService(app.Storage, utils.NewPasswordHasher(app.Config.Auth.BcryptCost), logger.Named("users"))

	authMW := middleware.NewAuthMiddleware(app.JWT, authService, logger.Named("auth"))

	// --- 2. РОУТЕРЫ ---
	runHealthRouter(api, controllers.NewHealthController(app.Ping, app.Config.Storage.Driver, logger))
	runAuthRouter(api, controllers.NewAuthController(authService, logger.Named("auth")), authMW)

	secureGroup := api.Group("", authMW.Auth)
	runAssetRouter(secureGroup, controllers.NewAssetController(assetService, logger.Named("assets")), authMW)
	runTransferRouter(secureGroup, controllers.NewTransferController(transferService, logger.Named("transfers")), authMW)
	runRepairRouter(secureGroup, controllers.NewRepairController(repairService, logger.Named("repairs")), authMW)
	runUserRouter(secureGroup, controllers.NewUserController(userService, logger.Named("users")), authMW)

	if app.Config.Diagnostics {
		dbCtrl := controllers.NewDatabaseController(app.Diagnostics, app.Connections, app.AppDB(), app.Config, logger.Named("diagnostics"))
		runDatabaseRouter(secureGroup, dbCtrl, authMW)
		logger.Warn("Диагностические маршруты /api/database включены")
	}

	logger.Info("InitRouter: Создание маршрутов завершено", zap.Int("routes", len(e.Routes())))
}
