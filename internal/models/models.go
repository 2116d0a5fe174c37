package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	// Единственный активный токен сессии; новый логин перезаписывает старый
	Token string `gorm:"uniqueIndex;not null"`
}

type UserSettings struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`
	// Произвольный JSON-документ настроек в том виде, в котором его прислал клиент
	Data string
}
