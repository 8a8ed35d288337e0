package entity

import (
	"time"
)

// Estimate смета проекта. На проект приходится не более одной сметы:
// уникальный индекс по project_id закрывает гонку двух параллельных созданий.
type Estimate struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID string    `json:"project_id" gorm:"size:32;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []EstimateItem `json:"items,omitempty" gorm:"foreignKey:EstimateID"`
}

func (Estimate) TableName() string {
	return "estimates"
}

// EstimateItem позиция сметы. Иерархия хранится плоско через parent_id;
// amount всегда пересчитывается на сервере как quantity*price.
type EstimateItem struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	EstimateID string    `json:"estimate_id" gorm:"size:32;not null;index"`
	ParentID   *string   `json:"parent_id" gorm:"size:32;index"`
	Name       string    `json:"name" gorm:"size:256;not null"`
	Unit       string    `json:"unit" gorm:"size:16;not null"`
	Quantity   float64   `json:"quantity" gorm:"type:decimal(15,4);not null"`
	Price      float64   `json:"price" gorm:"type:decimal(15,2);not null"`
	Amount     float64   `json:"amount" gorm:"type:decimal(15,2);not null"`
	Status     string    `json:"status" gorm:"size:16;not null;default:not_started"`
	Revision   int64     `json:"revision" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (EstimateItem) TableName() string {
	return "estimate_items"
}

// Статусы позиции сметы
const (
	ItemStatusNotStarted = "not_started" // не начато
	ItemStatusFinanced   = "financed"    // профинансировано
	ItemStatusInProgress = "in_progress" // в процессе
	ItemStatusCompleted  = "completed"   // выполнено
	ItemStatusRework     = "rework"      // переделываем
	ItemStatusAccepted   = "accepted"    // принято
)

// ValidItemStatus проверяет код статуса позиции сметы
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusNotStarted, ItemStatusFinanced, ItemStatusInProgress,
		ItemStatusCompleted, ItemStatusRework, ItemStatusAccepted:
		return true
	}
	return false
}
