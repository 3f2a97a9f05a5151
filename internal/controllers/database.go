package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/internal/diagnostics"
	"inventory-system/internal/dto"
	"inventory-system/pkg/config"
	"inventory-system/pkg/contextkeys"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// DatabaseController - диагностические маршруты. Подключаются только
// при DIAGNOSTICS_ENABLED=true и только для администратора.
type DatabaseController struct {
	checker *diagnostics.Checker
	manager *connections.Manager
	appDB   postgresql.Querier
	cfg     *config.Config
	logger  *zap.Logger
}

// NewDatabaseController. manager задан только в режиме переключения ролей,
// appDB - только для хранилища postgres.
func NewDatabaseController(
	checker *diagnostics.Checker,
	manager *connections.Manager,
	appDB postgresql.Querier,
	cfg *config.Config,
	logger *zap.Logger,
) *DatabaseController {
	return &DatabaseController{checker: checker, manager: manager, appDB: appDB, cfg: cfg, logger: logger}
}

func (c *DatabaseController) TestConnection(ctx echo.Context) error {
	var payload dto.TestConnectionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if payload.Port == 0 {
		payload.Port = 5432
	}

	report := c.checker.TestConnection(ctx.Request().Context(), postgresql.ConnectionOptions{
		Host:                   payload.Host,
		Port:                   payload.Port,
		Database:               payload.Database,
		User:                   payload.User,
		Password:               payload.Password,
		Encrypt:                payload.Encrypt,
		TrustServerCertificate: payload.TrustServerCertificate,
	})
	return respondReport(ctx, report)
}

func (c *DatabaseController) ExecuteQuery(ctx echo.Context) error {
	var payload dto.ExecuteQueryDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	sql := strings.TrimSpace(payload.SQL)
	reqCtx := ctx.Request().Context()

	var (
		result *connections.QueryResult
		err    error
	)
	switch {
	case c.manager != nil:
		sessionID, ok := contextkeys.SessionID(reqCtx)
		if !ok {
			return utils.ErrorResponse(ctx, apperrors.ErrUnauthorized, c.logger)
		}
		result, err = c.manager.ExecuteUserQuery(reqCtx, sessionID, sql, payload.Params...)
	case c.appDB != nil:
		result, err = connections.RunQuery(reqCtx, c.appDB, sql, payload.Params...)
	default:
		err = apperrors.NewHttpError(http.StatusBadRequest, "Выполнение SQL недоступно: используется хранилище в памяти", nil, nil)
	}
	if err != nil {
		c.logger.Warn("Диагностический запрос завершился ошибкой", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	c.logger.Info("Выполнен диагностический запрос", zap.Int("rows", len(result.Rows)), zap.Int64("affected", result.RowsAffected))
	return utils.SuccessResponse(ctx, result, "Запрос выполнен", http.StatusOK)
}

func (c *DatabaseController) TestPresets(ctx echo.Context) error {
	reports := c.checker.TestPresets(ctx.Request().Context())
	return utils.SuccessResponse(ctx, reports, "Проверка логинов завершена", http.StatusOK)
}

func (c *DatabaseController) Environment(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, diagnostics.Environment(c.cfg), "Успешно", http.StatusOK)
}

func respondReport(ctx echo.Context, report diagnostics.Report) error {
	if report.Success {
		return utils.SuccessResponse(ctx, report, report.Message, http.StatusOK)
	}
	return ctx.JSON(http.StatusServiceUnavailable, &utils.HttpResponse{
		Status:   false,
		Body:     report,
		Message:  report.Message,
		Category: report.Category,
	})
}
