package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, попытка
	// повторно перевести оценку в статус reviewed).
	ErrConflict = errors.New("resource state conflict")

	// ErrRemoteUnavailable используется, когда удаленное хранилище недоступно.
	// Локальное состояние при этом остается авторитетным и не откатывается.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)
