package postgresql

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "inventory-system/pkg/errors"
)

func TestClassifyError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	reset := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}

	cases := []struct {
		name string
		err  error
		want apperrors.ConnectionCategory
	}{
		{"login", &pgconn.PgError{Code: "28P01"}, apperrors.CategoryLoginFailed},
		{"authorization", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "28000"}), apperrors.CategoryLoginFailed},
		{"database", &pgconn.PgError{Code: "3D000"}, apperrors.CategoryDatabaseNotFound},
		{"dns", &net.DNSError{Err: "no such host", Name: "db.invalid", IsNotFound: true}, apperrors.CategoryDNS},
		{"deadline", fmt.Errorf("ping: %w", context.DeadlineExceeded), apperrors.CategoryTimeout},
		{"refused", refused, apperrors.CategoryConnectionRefuse},
		{"tls", errors.New("server refused TLS connection"), apperrors.CategoryTLS},
		{"network", reset, apperrors.CategoryNetwork},
		{"unknown", errors.New("something odd"), apperrors.CategoryUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyError(tc.err)
			assert.Equal(t, tc.want, got.Category)
			assert.NotEmpty(t, got.Message)
			assert.ErrorIs(t, got, tc.err)
		})
	}

	assert.Nil(t, ClassifyError(nil))
}

func TestIsConnectivityError(t *testing.T) {
	assert.True(t, IsConnectivityError(&pgconn.PgError{Code: "28P01"}))
	assert.True(t, IsConnectivityError(&net.OpError{Op: "dial", Err: errors.New("x")}))
	assert.False(t, IsConnectivityError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsConnectivityError(errors.New("plain")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
}
