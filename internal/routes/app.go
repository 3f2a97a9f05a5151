package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/internal/diagnostics"
	"inventory-system/internal/repositories"
	"inventory-system/internal/repositories/memory"
	"inventory-system/internal/repositories/postgres"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
)

// App владеет всеми долгоживущими ресурсами процесса. Shutdown освобождает
// их явно, обработчики получают зависимости только отсюда.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// Storage обслуживает запросы; в режиме переключения ролей ходит
	// через пул сессии. Accounts работает через пул приложения и нужен
	// для регистрации и профиля.
	Storage  repositories.Storage
	Accounts repositories.Storage

	// Connections задан только при ROLE_SWITCHING_ENABLED=true.
	Connections *connections.Manager
	Cache       repositories.CacheRepositoryInterface
	JWT         service.JWTService
	Diagnostics *diagnostics.Checker

	appPool *pgxpool.Pool
	redis   *redis.Client
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		Config:      cfg,
		Logger:      logger,
		JWT:         service.NewJWTService(cfg.Session.Secret, cfg.Session.TTL),
		Diagnostics: diagnostics.NewChecker(cfg.Database, connections.PgxOpener, logger),
	}

	policy := repositories.NewRegistrationPolicy(cfg.Registration.Enabled, cfg.Registration.InvitationCodes, logger)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		if cfg.Database.RoleSwitching {
			logger.Warn("ROLE_SWITCHING_ENABLED игнорируется для хранилища в памяти")
		}
		store := memory.NewStorage(policy, logger)
		app.Storage, app.Accounts = store, store
	case config.StoragePostgres:
		pool, err := postgresql.ConnectDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		app.appPool = pool
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		app.Accounts = postgres.NewStorage(pool, policy, logger)
		app.Storage = app.Accounts
		if cfg.Database.RoleSwitching {
			app.Connections = connections.NewManager(cfg.Database, connections.PgxOpener, logger)
			app.Storage = postgres.NewStorage(app.Connections.SessionQuerier(), policy, logger)
			logger.Info("Включено переключение ролей БД", zap.String("authUser", cfg.Database.AuthUser))
		}
	default:
		return nil, fmt.Errorf("неизвестный STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			app.closeStorage()
			return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
		}
		app.redis = client
		app.Cache = repositories.NewRedisCacheRepository(client)
	} else {
		app.Cache = repositories.NewMemoryCacheRepository()
	}

	logger.Info("Приложение инициализировано",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("roleSwitching", app.Connections != nil),
		zap.Bool("redis", app.redis != nil),
	)
	return app, nil
}

// Authenticator выбирает способ входа по режиму работы.
func (a *App) Authenticator() services.Authenticator {
	if a.Connections != nil {
		return services.NewManagerAuthenticator(a.Connections, a.Logger)
	}
	return services.NewStorageAuthenticator(a.Accounts.Users(), a.Logger)
}

// AppDB - пул приложения для диагностических запросов; nil для памяти.
func (a *App) AppDB() postgresql.Querier {
	if a.appPool == nil {
		return nil
	}
	return a.appPool
}

// Ping проверяет хранилище, а в режиме ролей - auth-подключение.
func (a *App) Ping(ctx context.Context) error {
	var err error
	if a.Connections != nil {
		var pool connections.Pool
		if pool, err = a.Connections.InitializeAuthConnection(ctx); err == nil {
			err = pool.Ping(ctx)
		}
	} else {
		err = a.Storage.Ping(ctx)
	}
	if err == nil {
		return nil
	}
	var connErr *apperrors.ConnectionError
	if errors.As(err, &connErr) {
		return err
	}
	return postgresql.ClassifyError(err)
}

func (a *App) closeStorage() {
	if a.Storage != nil && a.Storage != a.Accounts {
		a.Storage.Close()
	}
	if a.Accounts != nil {
		a.Accounts.Close()
	}
}

// Shutdown закрывает подключения сессий, auth-пул, пул приложения и Redis.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Connections != nil {
		if err := a.Connections.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closeStorage()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.Logger.Info("Ресурсы приложения освобождены")
	return errors.Join(errs...)
}
