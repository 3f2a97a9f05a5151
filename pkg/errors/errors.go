package errors

import "fmt"

var (
	// JWT и сессии
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrSessionRevoked       = fmt.Errorf("сессия завершена, выполните вход повторно")

	// Авторизация
	ErrEmptyAuthHeader      = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader    = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials   = fmt.Errorf("неверные учётные данные")
	ErrAccountLocked        = fmt.Errorf("слишком много неудачных попыток входа, попробуйте позже")
	ErrUnauthorized         = fmt.Errorf("неавторизован")
	ErrForbidden            = fmt.Errorf("доступ запрещён")
	ErrRegistrationDisabled = fmt.Errorf("регистрация отключена")
	ErrInvalidInvitation    = fmt.Errorf("неверный или просроченный код приглашения")

	// Подключения к БД
	ErrNoActiveConnection = fmt.Errorf("нет активного подключения для сессии, выполните вход повторно")
	ErrRoleSecretMissing  = fmt.Errorf("для роли пользователя не настроен пароль подключения")
	ErrManagerClosed      = fmt.Errorf("менеджер подключений остановлен")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrConflict   = fmt.Errorf("запись с такими уникальными полями уже существует")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError несёт готовый HTTP-код и сообщение для клиента.
// Err пишется только в лог и никогда не уходит наружу.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: 400, Message: message}
}
