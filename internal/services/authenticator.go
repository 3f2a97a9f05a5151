package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// Authenticator проверяет учётные данные и привязывает к сессии ресурсы,
// если они нужны (подключение под логином роли).
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, password, sessionID string) (*entities.PublicUser, error)
	EndSession(sessionID string)
	HasSession(sessionID string) bool
}

// storageAuthenticator - проверка по хранилищу без переключения ролей.
type storageAuthenticator struct {
	users  repositories.UserRepositoryInterface
	logger *zap.Logger
	now    func() time.Time
}

func NewStorageAuthenticator(users repositories.UserRepositoryInterface, logger *zap.Logger) Authenticator {
	return &storageAuthenticator{users: users, logger: logger, now: time.Now}
}

// findUser: email хранится в нижнем регистре, имя пользователя сравнивается точно.
func (a *storageAuthenticator) findUser(ctx context.Context, identifier string) (*entities.User, error) {
	user, err := a.users.FindByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, apperrors.ErrNotFound) {
		user, err = a.users.FindByUsername(ctx, identifier)
	}
	return user, err
}

func (a *storageAuthenticator) Authenticate(ctx context.Context, identifier, password, _ string) (*entities.PublicUser, error) {
	user, err := a.findUser(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		a.logger.Info("Попытка входа неактивного пользователя", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := a.now().UTC()
	updated, err := a.users.UpdateUser(ctx, user.ID, entities.UserPatch{LastLogin: &now})
	if err != nil {
		a.logger.Warn("Не удалось обновить время последнего входа", zap.Uint64("userID", user.ID), zap.Error(err))
	} else {
		user = updated
	}

	public := user.Public()
	return &public, nil
}

func (a *storageAuthenticator) EndSession(string) {}

func (a *storageAuthenticator) HasSession(string) bool { return true }

// managerAuthenticator - вход через auth-подключение и открытие пула
// под логином роли для сессии.
type managerAuthenticator struct {
	manager *connections.Manager
	logger  *zap.Logger
}

func NewManagerAuthenticator(manager *connections.Manager, logger *zap.Logger) Authenticator {
	return &managerAuthenticator{manager: manager, logger: logger}
}

func (a *managerAuthenticator) Authenticate(ctx context.Context, identifier, password, sessionID string) (*entities.PublicUser, error) {
	authUser, err := a.manager.AuthenticateUser(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if _, err := a.manager.CreateUserConnection(ctx, sessionID, authUser.RoleLogin, authUser.RoleSecret); err != nil {
		a.logger.Error("Не удалось открыть подключение сессии",
			zap.Uint64("userID", authUser.User.ID),
			zap.String("roleLogin", authUser.RoleLogin),
			zap.Error(err),
		)
		return nil, err
	}
	return &authUser.User, nil
}

func (a *managerAuthenticator) EndSession(sessionID string) {
	a.manager.CloseSessionConnection(sessionID)
}

func (a *managerAuthenticator) HasSession(sessionID string) bool {
	_, ok := a.manager.GetSessionConnection(sessionID)
	return ok
}
