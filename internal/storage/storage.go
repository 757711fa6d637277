// Package storage реализует хранилище данных на основе PostgreSQL
// для управления пользователями и токенами аутентификации. Предоставляет
// методы создания и чтения пользователей, частичного обновления профиля
// и идемпотентной выдачи токенов.
package storage

import "errors"

// Ошибки хранилища, на которые опирается бизнес-логика.
var (
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при попытке создать пользователя
	// с уже занятым email.
	ErrUserExists = errors.New("user already exists")
	// ErrTokenNotFound возвращается, если токен не найден.
	ErrTokenNotFound = errors.New("token not found")
)
