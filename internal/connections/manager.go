// Package connections управляет подключениями с переключением ролей:
// одно auth-подключение для проверки учётных данных и по одному пулу
// под логином роли на каждую сессию.
package connections

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories/postgres"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Pool - пул подключений к БД. *pgxpool.Pool удовлетворяет интерфейсу.
type Pool interface {
	postgresql.Querier
	Ping(ctx context.Context) error
	Close()
}

// Opener открывает пул по параметрам подключения.
type Opener func(ctx context.Context, opts postgresql.ConnectionOptions) (Pool, error)

// PgxOpener открывает настоящий pgxpool.
func PgxOpener(ctx context.Context, opts postgresql.ConnectionOptions) (Pool, error) {
	pool, err := postgresql.OpenPool(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type Manager struct {
	cfg    config.DatabaseConfig
	open   Opener
	logger *zap.Logger
	now    func() time.Time

	authMu   sync.Mutex
	authPool Pool

	mu       sync.Mutex
	sessions map[string]Pool
	locks    map[string]*sessionLock
	closed   bool
}

func NewManager(cfg config.DatabaseConfig, open Opener, logger *zap.Logger) *Manager {
	if open == nil {
		open = PgxOpener
	}
	return &Manager{
		cfg:      cfg,
		open:     open,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]Pool),
		locks:    make(map[string]*sessionLock),
	}
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// RoleLogin возвращает логин БД для роли приложения.
func (m *Manager) RoleLogin(role entities.Role) string {
	return m.cfg.RoleLogin(string(role))
}

// InitializeAuthConnection лениво открывает auth-подключение. Повторные
// вызовы возвращают тот же пул; после неудачи следующий вызов пробует снова.
func (m *Manager) InitializeAuthConnection(ctx context.Context) (Pool, error) {
	m.authMu.Lock()
	defer m.authMu.Unlock()

	if m.isClosed() {
		return nil, apperrors.ErrManagerClosed
	}
	if m.authPool != nil {
		return m.authPool, nil
	}

	opts := postgresql.OptionsFromConfig(m.cfg, m.cfg.AuthUser, m.cfg.AuthPassword)
	pool, err := m.open(ctx, opts)
	if err != nil {
		m.authPool = nil
		connErr := postgresql.ClassifyError(err)
		m.logger.Error("Не удалось открыть auth-подключение",
			zap.String("dsn", opts.Redacted()),
			zap.String("category", string(connErr.Category)),
			zap.Error(err),
		)
		return nil, connErr
	}

	m.logger.Info("Auth-подключение к БД установлено", zap.String("user", opts.User))
	m.authPool = pool
	return pool, nil
}

// AuthenticateUser проверяет учётные данные через auth-подключение.
// identifier - email или имя пользователя.
func (m *Manager) AuthenticateUser(ctx context.Context, identifier, password string) (*entities.AuthenticatedUser, error) {
	pool, err := m.InitializeAuthConnection(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(postgres.UserColumns...).
		From("users").
		Where(sq.Or{sq.Eq{"email": strings.ToLower(identifier)}, sq.Eq{"username": identifier}}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	user, err := postgres.ScanUser(pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		m.logger.Info("Попытка входа неактивного пользователя", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	secret := m.cfg.RolePasswords[string(user.Role)]
	if secret == "" && user.RolePassword.Valid {
		secret = user.RolePassword.String
	}
	if secret == "" {
		m.logger.Error("Не настроен пароль для логина роли", zap.String("role", string(user.Role)))
		return nil, apperrors.ErrRoleSecretMissing
	}

	m.touchLastLogin(ctx, pool, user)

	return &entities.AuthenticatedUser{
		User:       user.Public(),
		RoleLogin:  m.RoleLogin(user.Role),
		RoleSecret: secret,
	}, nil
}

// touchLastLogin обновляет время входа. Ошибка только логируется.
func (m *Manager) touchLastLogin(ctx context.Context, pool Pool, user *entities.User) {
	now := m.now().UTC()
	query, args, err := psql.Update("users").Set("last_login", now).Where(sq.Eq{"id": user.ID}).ToSql()
	if err == nil {
		_, err = pool.Exec(ctx, query, args...)
	}
	if err != nil {
		m.logger.Warn("Не удалось обновить last_login", zap.Uint64("userID", user.ID), zap.Error(err))
		return
	}
	user.LastLogin.SetValid(now)
}

func (m *Manager) acquire(sessionID string) *sessionLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	return l
}

func (m *Manager) release(sessionID string, l *sessionLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) withSessionLock(sessionID string, fn func()) {
	l := m.acquire(sessionID)
	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		m.release(sessionID, l)
	}()
	fn()
}

// CreateUserConnection открывает пул под логином роли и регистрирует его
// за сессией. Существующий пул сессии закрывается до открытия нового.
func (m *Manager) CreateUserConnection(ctx context.Context, sessionID, roleLogin, roleSecret string) (pool Pool, err error) {
	m.withSessionLock(sessionID, func() {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			err = apperrors.ErrManagerClosed
			return
		}
		old := m.sessions[sessionID]
		delete(m.sessions, sessionID)
		m.mu.Unlock()

		if old != nil {
			old.Close()
			m.logger.Debug("Предыдущее подключение сессии закрыто", zap.String("sessionID", sessionID))
		}

		opts := postgresql.OptionsFromConfig(m.cfg, roleLogin, roleSecret)
		opened, openErr := m.open(ctx, opts)
		if openErr != nil {
			connErr := postgresql.ClassifyError(openErr)
			m.logger.Error("Не удалось открыть подключение роли",
				zap.String("login", roleLogin),
				zap.String("category", string(connErr.Category)),
				zap.Error(openErr),
			)
			err = connErr
			return
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			opened.Close()
			err = apperrors.ErrManagerClosed
			return
		}
		m.sessions[sessionID] = opened
		m.mu.Unlock()

		m.logger.Info("Подключение роли открыто", zap.String("sessionID", sessionID), zap.String("login", roleLogin))
		pool = opened
	})
	return pool, err
}

func (m *Manager) GetSessionConnection(sessionID string) (Pool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.sessions[sessionID]
	return pool, ok
}

// CloseSessionConnection закрывает пул сессии и только потом удаляет его из реестра.
// Повторный вызов ничего не делает.
func (m *Manager) CloseSessionConnection(sessionID string) {
	m.withSessionLock(sessionID, func() {
		pool, ok := m.GetSessionConnection(sessionID)
		if !ok {
			return
		}
		pool.Close()

		m.mu.Lock()
		if m.sessions[sessionID] == pool {
			delete(m.sessions, sessionID)
		}
		m.mu.Unlock()
		m.logger.Info("Подключение сессии закрыто", zap.String("sessionID", sessionID))
	})
}

// ExecuteUserQuery выполняет произвольный запрос через подключение сессии.
func (m *Manager) ExecuteUserQuery(ctx context.Context, sessionID, sql string, params ...any) (*QueryResult, error) {
	pool, ok := m.GetSessionConnection(sessionID)
	if !ok {
		return nil, apperrors.ErrNoActiveConnection
	}
	return RunQuery(ctx, pool, sql, params...)
}

func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown закрывает все сессионные пулы и auth-подключение.
// После вызова новые подключения не открываются.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	pools := m.sessions
	m.sessions = make(map[string]Pool)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sid, pool := range pools {
			pool.Close()
			m.logger.Debug("Подключение сессии закрыто при остановке", zap.String("sessionID", sid))
		}

		m.authMu.Lock()
		if m.authPool != nil {
			m.authPool.Close()
			m.authPool = nil
		}
		m.authMu.Unlock()
	}()

	select {
	case <-done:
		m.logger.Info("Менеджер подключений остановлен", zap.Int("closedSessions", len(pools)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
