// Package diagnostics - проверки подключения к серверу БД, общие для
// HTTP-маршрутов /api/database и CLI dbcheck.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/connections"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
)

type Report struct {
	Success       bool                         `json:"success"`
	Category      apperrors.ConnectionCategory `json:"category,omitempty"`
	Message       string                       `json:"message"`
	Server        string                       `json:"server"`
	Database      string                       `json:"database"`
	User          string                       `json:"user"`
	SSLMode       string                       `json:"ssl_mode"`
	LatencyMS     int64                        `json:"latency_ms"`
	ServerVersion string                       `json:"server_version,omitempty"`
}

type PresetReport struct {
	Name   string `json:"name"`
	Report Report `json:"report"`
}

type NetworkReport struct {
	Host         string   `json:"host"`
	Port         int      `json:"port"`
	Addresses    []string `json:"addresses"`
	DNSError     string   `json:"dns_error,omitempty"`
	TCPReachable bool     `json:"tcp_reachable"`
	TCPError     string   `json:"tcp_error,omitempty"`
	LatencyMS    int64    `json:"latency_ms"`
}

type Checker struct {
	cfg    config.DatabaseConfig
	open   connections.Opener
	logger *zap.Logger
}

func NewChecker(cfg config.DatabaseConfig, open connections.Opener, logger *zap.Logger) *Checker {
	if open == nil {
		open = connections.PgxOpener
	}
	return &Checker{cfg: cfg, open: open, logger: logger}
}

// TestConnection открывает временный пул, запрашивает версию сервера и закрывает пул.
func (c *Checker) TestConnection(ctx context.Context, opts postgresql.ConnectionOptions) Report {
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = c.cfg.ConnectTimeout
	}
	report := Report{
		Server:   net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Database: opts.Database,
		User:     opts.User,
		SSLMode:  opts.SSLMode(),
	}

	start := time.Now()
	pool, err := c.open(ctx, opts)
	report.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		connErr := postgresql.ClassifyError(err)
		report.Category = connErr.Category
		report.Message = connErr.Message
		c.logger.Warn("Диагностика: подключение не удалось",
			zap.String("dsn", opts.Redacted()),
			zap.String("category", string(connErr.Category)),
			zap.Error(err),
		)
		return report
	}
	defer pool.Close()

	var version string
	if err := pool.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		c.logger.Debug("Диагностика: не удалось получить версию сервера", zap.Error(err))
	}

	report.Success = true
	report.ServerVersion = version
	report.Message = "Подключение успешно"
	return report
}

// TestPresets проверяет auth-логин и логины всех ролей из конфигурации.
func (c *Checker) TestPresets(ctx context.Context) []PresetReport {
	reports := []PresetReport{{
		Name:   "auth",
		Report: c.TestConnection(ctx, postgresql.OptionsFromConfig(c.cfg, c.cfg.AuthUser, c.cfg.AuthPassword)),
	}}

	for _, role := range config.RoleNames() {
		login := c.cfg.RoleLogin(role)
		secret, ok := c.cfg.RolePasswords[role]
		if !ok || secret == "" {
			reports = append(reports, PresetReport{Name: role, Report: Report{
				User:    login,
				Message: fmt.Sprintf("Пароль для логина %s не задан (DB_ROLE_PASSWORD_%s)", login, upper(role)),
			}})
			continue
		}
		reports = append(reports, PresetReport{
			Name:   role,
			Report: c.TestConnection(ctx, postgresql.OptionsFromConfig(c.cfg, login, secret)),
		})
	}
	return reports
}

// ProbeNetwork проверяет разрешение имени и доступность TCP-порта без протокола БД.
func (c *Checker) ProbeNetwork(ctx context.Context, host string, port int) NetworkReport {
	report := NetworkReport{Host: host, Port: port, Addresses: []string{}}

	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		report.DNSError = err.Error()
		return report
	}
	sort.Strings(addrs)
	report.Addresses = addrs

	timeout := c.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	report.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		report.TCPError = err.Error()
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Timeout() {
			report.TCPError = "таймаут TCP-подключения: " + err.Error()
		}
		return report
	}
	_ = conn.Close()
	report.TCPReachable = true
	return report
}
