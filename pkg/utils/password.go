package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "inventory-system/pkg/errors"
)

// PasswordHasher хеширует пароли пользователей bcrypt со стоимостью из AUTH_BCRYPT_COST.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher: стоимость вне [bcrypt.MinCost, bcrypt.MaxCost] заменяется на bcrypt.DefaultCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

func (h PasswordHasher) Cost() int {
	return h.cost
}

func (h PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.NewBadRequestError("Пароль длиннее 72 байт")
		}
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хешем пользователя. Любое несовпадение,
// включая повреждённый хеш, - ErrInvalidCredentials.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
