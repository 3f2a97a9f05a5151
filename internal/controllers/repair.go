package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type RepairController struct {
	repairService services.RepairServiceInterface
	logger        *zap.Logger
}

func NewRepairController(repairService services.RepairServiceInterface, logger *zap.Logger) *RepairController {
	return &RepairController{repairService: repairService, logger: logger}
}

func (c *RepairController) GetRepairs(ctx echo.Context) error {
	repairs, err := c.repairService.GetRepairs(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, emptyIfNil(repairs), "Успешно", http.StatusOK)
}

func (c *RepairController) GetActiveRepairs(ctx echo.Context) error {
	repairs, err := c.repairService.GetActiveRepairs(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, emptyIfNil(repairs), "Успешно", http.StatusOK)
}

func (c *RepairController) FindRepair(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	repair, err := c.repairService.FindRepair(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, repair, "Успешно", http.StatusOK)
}

func (c *RepairController) CreateRepair(ctx echo.Context) error {
	var payload dto.CreateRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	repair, err := c.repairService.CreateRepair(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, repair, "Ремонт зарегистрирован", http.StatusCreated)
}

func (c *RepairController) UpdateRepair(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	repair, err := c.repairService.UpdateRepair(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, repair, "Ремонт обновлён", http.StatusOK)
}

func (c *RepairController) CompleteRepair(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.CompleteRepairDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	repair, err := c.repairService.CompleteRepair(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, repair, "Ремонт завершён", http.StatusOK)
}

func (c *RepairController) DeleteRepair(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.repairService.DeleteRepair(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Ремонт удалён", http.StatusOK)
}
