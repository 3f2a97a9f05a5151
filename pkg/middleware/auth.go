package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

const SessionCookieName = "session"

// SessionValidator проверяет, что сессия из токена всё ещё действительна
// и что пользователь активен с той же ролью, что записана в токене.
type SessionValidator interface {
	ValidateSession(ctx context.Context, userID uint64, role, sessionID string) error
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   SessionValidator
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions SessionValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		logger:     logger,
	}
}

// Auth извлекает токен из заголовка Authorization или cookie "session",
// проверяет его и кладёт данные сессии в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := extractToken(c)
		if err != nil {
			m.logger.Debug("AuthMiddleware: токен не передан", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		if m.sessions != nil {
			if err := m.sessions.ValidateSession(ctx, claims.UserID, claims.Role, claims.SessionID); err != nil {
				m.logger.Info("AuthMiddleware: сессия недействительна",
					zap.String("sessionID", claims.SessionID), zap.Error(err))
				return utils.ErrorResponse(c, err, m.logger)
			}
		}

		ctx = contextkeys.WithSession(ctx, claims.UserID, claims.Role, claims.SessionID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireRole пропускает только пользователей с ролью не ниже min.
func (m *AuthMiddleware) RequireRole(min entities.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := contextkeys.UserRole(c.Request().Context())
			if !ok {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			if !entities.Role(role).AtLeast(min) {
				m.logger.Warn("Недостаточно прав",
					zap.String("role", role),
					zap.String("required", string(min)),
					zap.String("path", c.Path()),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", apperrors.ErrInvalidAuthHeader
		}
		return parts[1], nil
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrEmptyAuthHeader
	}
	return cookie.Value, nil
}
