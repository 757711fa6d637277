// Package emailaddr содержит функции нормализации адресов электронной почты.
// Email используется как естественный идентификатор пользователя, поэтому
// перед сохранением приводится к каноническому виду.
package emailaddr

import (
	"errors"
	"strings"
)

// ErrEmpty возвращается, когда адрес пустой или состоит из одних пробелов.
var ErrEmpty = errors.New("email is empty")

// Normalize приводит адрес к каноническому виду: обрезает пробелы по краям
// и переводит адрес целиком в нижний регистр. Операция идемпотентна.
func Normalize(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrEmpty
	}
	return normalized, nil
}
