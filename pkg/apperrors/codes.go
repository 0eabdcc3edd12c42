package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeUnknownError  ErrorCode = "UNKNOWN_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Аутентификация и Авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

// Коды конвейера анализа (internal/analysis, internal/payment, internal/sheets)
const (
	// CodeConfiguration - отсутствует/некорректен credential или запись
	// прайс-таблицы. Фатально: операция прерывается ДО любого внешнего вызова.
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// CodeUpstream - сеть/auth/timeout/quota внешнего коллаборатора.
	CodeUpstream ErrorCode = "UPSTREAM_ERROR"

	// CodeMalformedResponse - ответ модели не соответствует ожидаемой схеме отчета.
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// CodeUntrustedOutcome - redirect заявляет success, но провайдер платежа
	// не подтвердил транзакцию (или сумма не сошлась).
	CodeUntrustedOutcome ErrorCode = "UNTRUSTED_OUTCOME"
)
