package errors

import (
	"errors"
	"fmt"
)

// Kind - класс ошибки, определяет политику повторов и то, как ошибка
// показывается пользователю
type Kind string

const (
	// KindNetwork - ответ не получен (обрыв, таймаут). Чтения можно
	// повторять, записи - никогда.
	KindNetwork Kind = "network"
	// KindRejection - хранилище ответило не-2xx
	KindRejection Kind = "rejection"
	// KindValidation - локальная валидация, до сетевого вызова дело
	// не дошло
	KindValidation Kind = "validation"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Kind       Kind                   `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	cause      error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Kind:       KindRejection,
		StatusCode: statusCode,
	}
}

// NewNetwork оборачивает сетевой сбой (ответа не было)
func NewNetwork(message string, cause error) *AppError {
	return &AppError{
		Code:       CodeNetworkFailure,
		Message:    message,
		Kind:       KindNetwork,
		StatusCode: 0,
		cause:      cause,
	}
}

// NewRejection оборачивает не-2xx ответ хранилища; detail из тела ответа
// показывается пользователю как есть
func NewRejection(statusCode int, detail string) *AppError {
	if detail == "" {
		detail = fmt.Sprintf("store rejected the request with status %d", statusCode)
	}
	return &AppError{
		Code:       CodeStoreRejection,
		Message:    detail,
		Kind:       KindRejection,
		StatusCode: statusCode,
	}
}

// NewValidation - локальная ошибка валидации с готовым текстом для
// пользователя
func NewValidation(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    KindValidation,
	}
}

// Retryable reports whether the error may be retried for read calls:
// network-class failures and gateway-style 5xx responses. Writes are never
// retried regardless of this.
func (e *AppError) Retryable() bool {
	if e.Kind == KindNetwork {
		return true
	}
	if e.Kind == KindRejection {
		switch e.StatusCode {
		case 502, 503, 504:
			return true
		}
	}
	return false
}

// IsRetryable is the nil-safe helper over (*AppError).Retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable()
	}
	return false
}

// AsAppError извлекает *AppError из цепочки
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRateLimited reports whether the store rejected the call because of the
// per-building 24h submission window.
func IsRateLimited(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return false
	}
	return appErr.Kind == KindRejection && (appErr.StatusCode == 429 || appErr.StatusCode == 409)
}
