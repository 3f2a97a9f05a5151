package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "inventory-system/pkg/errors"
)

func parseID(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, map[string]interface{}{name: ctx.Param(name)})
	}
	return id, nil
}

// bindAndValidate - общий шаг для всех тел запросов.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат тела запроса", err, nil)
	}
	if err := ctx.Validate(payload); err != nil {
		return err
	}
	return nil
}

// emptyIfNil - клиент получает [] вместо null.
func emptyIfNil[T any](list []T) []T {
	if list == nil {
		return make([]T, 0)
	}
	return list
}
