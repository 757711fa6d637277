// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и служебные флаги.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Email — естественный идентификатор, отдельного username нет.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта, уникальная, в нижнем регистре
	Name         string    // Отображаемое имя, необязательное
	PasswordHash string    // Хэш пароля пользователя
	IsActive     bool      // Активна ли учётная запись
	IsStaff      bool      // Доступ к административным функциям
	IsSuperuser  bool      // Суперпользователь, всегда подразумевает IsStaff
	CreatedAt    time.Time // Дата создания учётной записи
}

// Profile — публичное представление пользователя, отдаваемое наружу.
// Хэш пароля в него не попадает никогда.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthToken представляет непрозрачный токен аутентификации.
// На одного пользователя приходится ровно один токен,
// повторный вход возвращает тот же ключ.
type AuthToken struct {
	Key       string    // Случайный ключ, предъявляется как bearer-токен
	UserUID   string    // Владелец токена
	CreatedAt time.Time // Дата выдачи
}
