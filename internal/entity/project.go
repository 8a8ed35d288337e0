package entity

import (
	"time"
)

// Project объект строительства
type Project struct {
	ID        string     `json:"id" gorm:"primaryKey;size:32"`
	Name      string     `json:"name" gorm:"size:256;not null"`
	Address   string     `json:"address" gorm:"size:512"`
	StartDate *time.Time `json:"start_date" gorm:"type:date"`
	EndDate   *time.Time `json:"end_date" gorm:"type:date"`
	ClientID  string     `json:"client_id" gorm:"size:32;not null;index"`
	ManagerID string     `json:"manager_id" gorm:"size:32;not null;index"`
	Status    string     `json:"status" gorm:"size:16;not null;default:planning"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Связи
	Client  *User `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Manager *User `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectUser участник проекта (помимо заказчика и менеджера)
type ProjectUser struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID string    `json:"project_id" gorm:"size:32;not null;uniqueIndex:idx_project_user"`
	UserID    string    `json:"user_id" gorm:"size:32;not null;uniqueIndex:idx_project_user"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ProjectUser) TableName() string {
	return "project_users"
}

// Статусы проекта
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

// ValidProjectStatus проверяет код статуса проекта
func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}
