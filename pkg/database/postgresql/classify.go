package postgresql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "inventory-system/pkg/errors"
)

// Коды SQLSTATE, которые относятся к подключению, а не к запросу.
const (
	codeInvalidPassword      = "28P01"
	codeInvalidAuthorization = "28000"
	codeInvalidCatalogName   = "3D000"
	codeUniqueViolation      = "23505"
)

// IsUniqueViolation - нарушение уникального ограничения.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsConnectivityError сообщает, что ошибка возникла при установке
// подключения или в сети, а не при выполнении SQL.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidPassword, codeInvalidAuthorization, codeInvalidCatalogName:
			return true
		}
	}
	return false
}

// ClassifyError переводит ошибку драйвера в ConnectionError с категорией.
func ClassifyError(err error) *apperrors.ConnectionError {
	if err == nil {
		return nil
	}
	var existing *apperrors.ConnectionError
	if errors.As(err, &existing) {
		return existing
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeInvalidPassword, codeInvalidAuthorization:
			return apperrors.NewConnectionError(apperrors.CategoryLoginFailed,
				"Ошибка входа: неверное имя пользователя или пароль БД", err)
		case codeInvalidCatalogName:
			return apperrors.NewConnectionError(apperrors.CategoryDatabaseNotFound,
				"База данных не найдена на сервере", err)
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return apperrors.NewConnectionError(apperrors.CategoryDNS,
			"Не удалось разрешить имя сервера БД", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || isNetTimeout(err) {
		return apperrors.NewConnectionError(apperrors.CategoryTimeout,
			"Превышено время ожидания подключения к серверу БД", err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return apperrors.NewConnectionError(apperrors.CategoryConnectionRefuse,
			"Сервер БД отклонил подключение: проверьте адрес и порт", err)
	}

	if isTLSError(err) {
		return apperrors.NewConnectionError(apperrors.CategoryTLS,
			"Ошибка TLS: проверьте настройки шифрования и доверия сертификату", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return apperrors.NewConnectionError(apperrors.CategoryNetwork,
			"Сетевая ошибка при подключении к серверу БД", err)
	}

	return apperrors.NewConnectionError(apperrors.CategoryUnknown,
		"Не удалось подключиться к серверу БД", err)
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "server refused tls") || strings.Contains(msg, "tls:")
}
