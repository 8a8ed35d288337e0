package service

import "errors"

// Ошибки сервисного слоя. Обработчики переводят их в HTTP-коды.
var (
	ErrNotFound   = errors.New("запись не найдена")
	ErrConflict   = errors.New("конфликт изменений")
	ErrValidation = errors.New("некорректные данные")
	ErrForbidden  = errors.New("доступ запрещён")
)
