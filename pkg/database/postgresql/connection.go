package postgresql

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/pkg/config"
)

// ConnectionOptions - параметры одного подключения к серверу БД.
// Encrypt и TrustServerCertificate отображаются на sslmode.
type ConnectionOptions struct {
	Host                   string `json:"host"`
	Port                   int    `json:"port"`
	Database               string `json:"database"`
	User                   string `json:"user"`
	Password               string `json:"-"`
	Encrypt                bool   `json:"encrypt"`
	TrustServerCertificate bool   `json:"trustServerCertificate"`
	ConnectTimeout         time.Duration
	MaxConns               int32
}

// OptionsFromConfig собирает параметры подключения для заданного логина.
func OptionsFromConfig(cfg config.DatabaseConfig, user, password string) ConnectionOptions {
	return ConnectionOptions{
		Host:                   cfg.Host,
		Port:                   cfg.Port,
		Database:               cfg.Name,
		User:                   user,
		Password:               password,
		Encrypt:                cfg.Encrypt,
		TrustServerCertificate: cfg.TrustCert,
		ConnectTimeout:         cfg.ConnectTimeout,
	}
}

func (o ConnectionOptions) SSLMode() string {
	switch {
	case !o.Encrypt:
		return "disable"
	case o.TrustServerCertificate:
		return "require"
	default:
		return "verify-full"
	}
}

// DSN строит строку подключения в формате URL.
func (o ConnectionOptions) DSN() string {
	port := o.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(port)),
		Path:   "/" + o.Database,
	}
	q := url.Values{}
	q.Set("sslmode", o.SSLMode())
	if o.ConnectTimeout > 0 {
		secs := int(o.ConnectTimeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted - DSN без пароля, для логов и диагностики.
func (o ConnectionOptions) Redacted() string {
	masked := o
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	return masked.DSN()
}

// OpenPool открывает пул и проверяет его пингом. Пул закрывается при ошибке пинга.
func OpenPool(ctx context.Context, opts ConnectionOptions) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(opts.DSN())
	if err != nil {
		return nil, fmt.Errorf("неверные параметры подключения: %w", err)
	}
	if opts.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	return openAndPing(ctx, poolCfg, opts.ConnectTimeout)
}

// ConnectDB открывает общий пул приложения по DSN из конфигурации.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("неверный DATABASE_URL: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	return openAndPing(ctx, poolCfg, cfg.ConnectTimeout)
}

func openAndPing(ctx context.Context, poolCfg *pgxpool.Config, timeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
