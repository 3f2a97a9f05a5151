package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/pkg/utils"
)

type HealthController struct {
	ping   func(ctx context.Context) error
	driver string
	logger *zap.Logger
}

func NewHealthController(ping func(ctx context.Context) error, driver string, logger *zap.Logger) *HealthController {
	return &HealthController{ping: ping, driver: driver, logger: logger}
}

func (c *HealthController) Health(ctx echo.Context) error {
	if err := c.ping(ctx.Request().Context()); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"storage": c.driver}, "OK", http.StatusOK)
}
