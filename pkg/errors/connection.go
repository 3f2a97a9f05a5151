package errors

// ConnectionCategory - машинно-проверяемая категория сбоя подключения к БД.
type ConnectionCategory string

const (
	CategoryDNS              ConnectionCategory = "dns"
	CategoryConnectionRefuse ConnectionCategory = "connection_refused"
	CategoryTimeout          ConnectionCategory = "timeout"
	CategoryLoginFailed      ConnectionCategory = "login_failed"
	CategoryDatabaseNotFound ConnectionCategory = "database_not_found"
	CategoryTLS              ConnectionCategory = "tls"
	CategoryNetwork          ConnectionCategory = "network"
	CategoryUnknown          ConnectionCategory = "unknown"
)

// ConnectionError - структурированный результат сбоя подключения.
// Вызывающему коду не нужно разбирать коды ошибок драйвера.
type ConnectionError struct {
	Category ConnectionCategory
	Message  string
	Err      error
}

func (e *ConnectionError) Error() string { return e.Message }

func (e *ConnectionError) Unwrap() error { return e.Err }

func NewConnectionError(category ConnectionCategory, message string, err error) *ConnectionError {
	return &ConnectionError{Category: category, Message: message, Err: err}
}
