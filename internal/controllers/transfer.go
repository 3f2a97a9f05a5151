package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type TransferController struct {
	transferService services.TransferServiceInterface
	logger          *zap.Logger
}

func NewTransferController(transferService services.TransferServiceInterface, logger *zap.Logger) *TransferController {
	return &TransferController{transferService: transferService, logger: logger}
}

func (c *TransferController) GetTransfers(ctx echo.Context) error {
	transfers, err := c.transferService.GetTransfers(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, emptyIfNil(transfers), "Успешно", http.StatusOK)
}

func (c *TransferController) FindTransfer(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	transfer, err := c.transferService.FindTransfer(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, transfer, "Успешно", http.StatusOK)
}

func (c *TransferController) CreateTransfer(ctx echo.Context) error {
	var payload dto.CreateTransferDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	transfer, err := c.transferService.CreateTransfer(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, transfer, "Перемещение зарегистрировано", http.StatusCreated)
}
