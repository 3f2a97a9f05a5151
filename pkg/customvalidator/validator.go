// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"inventory-system/internal/entities"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	voucherRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/_.-]{0,49}$`)
	loginRegex   = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)
)

// RegisterCustomValidations регистрирует все кастомные правила в переданном валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"email":         isGoodEmailFormat,
		"app_role":      isAppRole,
		"asset_status":  isAssetStatus,
		"repair_status": isRepairStatus,
		"voucher":       isVoucherNumber,
		"login":         isLogin,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// New возвращает валидатор с уже зарегистрированными правилами.
func New() (*validator.Validate, error) {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return v, nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isAppRole(fl validator.FieldLevel) bool {
	return entities.Role(fl.Field().String()).IsValid()
}

func isAssetStatus(fl validator.FieldLevel) bool {
	return entities.AssetStatus(fl.Field().String()).IsValid()
}

func isRepairStatus(fl validator.FieldLevel) bool {
	return entities.RepairStatus(fl.Field().String()).IsValid()
}

func isVoucherNumber(fl validator.FieldLevel) bool {
	return voucherRegex.MatchString(fl.Field().String())
}

func isLogin(fl validator.FieldLevel) bool {
	return loginRegex.MatchString(fl.Field().String())
}
