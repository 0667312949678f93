package entities

import (
	"time"

	"equipment-inventory/pkg/types"
)

// Equipment: строка таблицы equipment в том виде, как она хранится.
// Названия категории и локации сюда не входят, их даёт проекция dto.EquipmentDTO.
type Equipment struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	SerialNumber string          `json:"serial_number"`
	CategoryID   uint64          `json:"category_id"`
	LocationID   uint64          `json:"location_id"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Status       EquipmentStatus `json:"status"`

	types.BaseEntity
}
