package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Debug("Login: неверные данные запроса", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	resp, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})

	return utils.SuccessResponse(c, resp, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.Register(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, "Пользователь зарегистрирован", http.StatusCreated)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	user, err := ctrl.authService.CurrentUser(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, "Успешно", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	sessionID, ok := contextkeys.SessionID(c.Request().Context())
	if !ok {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}
	if err := ctrl.authService.Logout(c.Request().Context(), sessionID); err != nil {
		return ctrl.errorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}
