package entity

import (
	"time"
)

// User участник платформы
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Email        string     `json:"email" gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Role         string     `json:"role" gorm:"size:16;not null;default:client"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Роли пользователей
const (
	RoleClient      = "client"      // заказчик
	RoleManager     = "manager"     // менеджер проекта
	RoleExpert      = "expert"      // эксперт-приёмщик
	RoleCoordinator = "coordinator" // координатор
	RoleMaster      = "master"      // мастер
	RoleDesigner    = "designer"    // дизайнер
)

// ValidRole проверяет, что код роли входит в перечисление
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleManager, RoleExpert, RoleCoordinator, RoleMaster, RoleDesigner:
		return true
	}
	return false
}
