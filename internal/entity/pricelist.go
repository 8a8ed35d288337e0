package entity

import (
	"time"
)

// PriceList прайс-лист (для заказчиков или для мастеров)
type PriceList struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:256;not null"`
	Type      string    `json:"type" gorm:"size:16;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []PriceItem `json:"items,omitempty" gorm:"foreignKey:PriceListID"`
}

func (PriceList) TableName() string {
	return "price_lists"
}

// PriceItem позиция прайс-листа
type PriceItem struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	PriceListID string    `json:"price_list_id" gorm:"size:32;not null;index"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Unit        string    `json:"unit" gorm:"size:16;not null"`
	Price       float64   `json:"price" gorm:"type:decimal(15,2);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PriceItem) TableName() string {
	return "price_items"
}

// Типы прайс-листов
const (
	PriceListTypeClient = "client"
	PriceListTypeMaster = "master"
)

// ValidPriceListType проверяет код типа прайс-листа
func ValidPriceListType(t string) bool {
	return t == PriceListTypeClient || t == PriceListTypeMaster
}
