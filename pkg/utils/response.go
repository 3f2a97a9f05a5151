package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
)

type HttpResponse struct {
	Status   bool                         `json:"status"`
	Body     interface{}                  `json:"body,omitempty"`
	Message  string                       `json:"message"`
	Category apperrors.ConnectionCategory `json:"category,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// sentinelStatus - коды для ошибок-сентинелов. Порядок важен: первое совпадение побеждает.
var sentinelStatus = []struct {
	err  error
	code int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrConflict, http.StatusConflict},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrSessionRevoked, http.StatusUnauthorized},
	{apperrors.ErrNoActiveConnection, http.StatusUnauthorized},
	{apperrors.ErrUserIDNotFoundInContext, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
	{apperrors.ErrRegistrationDisabled, http.StatusForbidden},
	{apperrors.ErrAccountLocked, http.StatusLocked},
	{apperrors.ErrInvalidInvitation, http.StatusBadRequest},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
	{apperrors.ErrRoleSecretMissing, http.StatusServiceUnavailable},
	{apperrors.ErrManagerClosed, http.StatusServiceUnavailable},
}

// StatusFor возвращает HTTP-код для ошибки слоя сервисов.
func StatusFor(err error) int {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	var connErr *apperrors.ConnectionError
	if errors.As(err, &connErr) {
		return http.StatusServiceUnavailable
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return http.StatusBadRequest
	}
	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return http.StatusInternalServerError
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code := StatusFor(err)
	response := &HttpResponse{Status: false, Message: err.Error()}

	var httpErr *apperrors.HttpError
	var connErr *apperrors.ConnectionError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		response.Message = httpErr.Message
		if httpErr.Details != nil {
			response.Body = httpErr.Details
		}
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
	case errors.As(err, &connErr):
		logger.Error("Ошибка подключения к БД",
			zap.String("category", string(connErr.Category)),
			zap.Error(connErr.Err),
		)
		response.Message = connErr.Message
		response.Category = connErr.Category
	case errors.As(err, &validationErrors):
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		response.Message = "Ошибка валидации: " + strings.Join(msgs, "; ")
	case code == http.StatusGatewayTimeout:
		logger.Warn("Превышено время выполнения запроса", zap.Error(err))
		response.Message = "Превышено время ожидания ответа базы данных"
	case code == http.StatusInternalServerError:
		logger.Error("Unexpected Error", zap.Error(err))
		response.Message = "Внутренняя ошибка сервера"
	}

	return c.JSON(code, response)
}
