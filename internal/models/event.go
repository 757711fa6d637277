package models

import "time"

// UserRegisteredEvent — событие об успешной регистрации пользователя,
// публикуется в брокер для downstream-потребителей (рассылки, аналитика).
type UserRegisteredEvent struct {
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
