// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
package models

// Role роль пользователя: ровно одна из Admin или User.
type Role string

const (
	// RoleAdmin администратор: управляет отпусками и видит отчёты, лайкать не может.
	RoleAdmin Role = "Admin"
	// RoleUser обычный пользователь.
	RoleUser Role = "User"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string // Уникальный идентификатор пользователя
	FirstName    string // Имя
	LastName     string // Фамилия
	Email        string // Электронная почта (уникальная)
	PasswordHash string // Хэш пароля пользователя
	Role         Role   // Роль пользователя
}

// Identity минимальный набор данных о вызывающем, извлечённый из токена.
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin сообщает, является ли вызывающий администратором.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RegisterInput данные формы регистрации.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4,max=72"`
}

// LoginInput учётные данные для входа.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
