package utils

import (
	"fmt"
	"strings"
	"time"

	apperrors "inventory-system/pkg/errors"
)

const DateLayout = "2006-01-02"

// ParseDate принимает дату "YYYY-MM-DD" или полную метку RFC3339.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperrors.NewBadRequestError(fmt.Sprintf("Поле '%s': неверный формат даты, ожидается YYYY-MM-DD", field))
}

// ParseOptionalDate - то же, что ParseDate, но nil остаётся nil.
func ParseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := ParseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
