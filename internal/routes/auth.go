package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/utils"
)

// Ограничение на вход и регистрацию: в среднем 5 запросов в секунду с IP.
const (
	authRateLimit = rate.Limit(5)
	authRateBurst = 10
)

func authRateLimiter() echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      authRateLimit,
			Burst:     authRateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, &utils.HttpResponse{
				Status:  false,
				Message: "Слишком много запросов, попробуйте позже",
			})
		},
	})
}

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login, authRateLimiter())
		authGroup.POST("/register", authCtrl.Register, authRateLimiter())
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
		authGroup.POST("/logout", authCtrl.Logout, authMW.Auth)
	}
}
