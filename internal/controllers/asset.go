package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type AssetController struct {
	assetService services.AssetServiceInterface
	logger       *zap.Logger
}

func NewAssetController(assetService services.AssetServiceInterface, logger *zap.Logger) *AssetController {
	return &AssetController{assetService: assetService, logger: logger}
}

func (c *AssetController) GetAssets(ctx echo.Context) error {
	assets, err := c.assetService.GetAssets(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, emptyIfNil(assets), "Успешно", http.StatusOK)
}

func (c *AssetController) FindAsset(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	asset, err := c.assetService.FindAsset(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Успешно", http.StatusOK)
}

func (c *AssetController) CreateAsset(ctx echo.Context) error {
	var payload dto.CreateAssetDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	asset, err := c.assetService.CreateAsset(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив создан", http.StatusCreated)
}

func (c *AssetController) UpdateAsset(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateAssetDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	asset, err := c.assetService.UpdateAsset(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив обновлён", http.StatusOK)
}

func (c *AssetController) DeleteAsset(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.assetService.DeleteAsset(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Актив удалён", http.StatusOK)
}

func (c *AssetController) GetAssetTransfers(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	transfers, err := c.assetService.GetAssetTransfers(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, emptyIfNil(transfers), "Успешно", http.StatusOK)
}

func (c *AssetController) GetAssetRepairs(ctx echo.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	repairs, err := c.assetService.GetAssetRepairs(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, emptyIfNil(repairs), "Успешно", http.StatusOK)
}

func (c *AssetController) ExportAssets(ctx echo.Context) error {
	assets, err := c.assetService.GetAssets(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f, err := services.BuildAssetWorkbook(assets)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("assets_%s.xlsx", time.Now().Format(utils.DateLayout))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
