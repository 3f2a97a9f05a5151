package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "inventory-system/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("asset: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"no connection", apperrors.ErrNoActiveConnection, http.StatusUnauthorized},
		{"locked", apperrors.ErrAccountLocked, http.StatusLocked},
		{"registration", apperrors.ErrRegistrationDisabled, http.StatusForbidden},
		{"connection", apperrors.NewConnectionError(apperrors.CategoryTimeout, "timeout", nil), http.StatusServiceUnavailable},
		{"http error", apperrors.NewHttpError(http.StatusTeapot, "teapot", nil, nil), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("date", "2024-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("date", "15.01.2024")
	assert.Equal(t, http.StatusBadRequest, StatusFor(err))

	empty, err := ParseOptionalDate("date", nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Warehouse B", SanitizeText("  <b>Warehouse B</b> "))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "Tom & Jerry", SanitizeText("Tom & Jerry"))
	assert.Nil(t, SanitizePtr(nil))
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, CheckPassword(hash, "secret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("not-a-hash", "secret"), apperrors.ErrInvalidCredentials)

	_, err = hasher.Hash(strings.Repeat("x", 73))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, StatusFor(err))
}

func TestPasswordHasherCostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewPasswordHasher(12).Cost())
}
