// Package token реализует генерацию непрозрачных ключей аутентификации.
//
// Ключ — 40 шестнадцатеричных символов из криптографически стойкого
// источника случайности. Ключ не содержит никаких данных о пользователе,
// связь с владельцем хранится только в базе.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeyLength — длина ключа в символах.
const KeyLength = 40

// GenerateKey возвращает новый случайный ключ токена.
func GenerateKey() (string, error) {
	const op = "token.GenerateKey"
	raw := make([]byte, KeyLength/2)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(raw), nil
}
