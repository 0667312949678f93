package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// EquipmentDraftDTO: тело запросов на создание и полное обновление.
// Пустой статус означает Active. Длина имени и серийного номера считается без краевых пробелов.
type EquipmentDraftDTO struct {
	Name         string    `json:"equipmentName" validate:"required,notblank,trimmin=3,trimmax=50"`
	SerialNumber string    `json:"serialNumber"  validate:"required,notblank,trimmin=3,trimmax=50"`
	CategoryID   uint64    `json:"categoryId"    validate:"required,gt=0,max=9223372036854775807"`
	LocationID   uint64    `json:"locationId"    validate:"required,gt=0,max=9223372036854775807"`
	PurchaseDate time.Time `json:"purchaseDate"  validate:"required"`
	Status       string    `json:"status"        validate:"omitempty,max=32"`
}

type (
	CreateEquipmentDTO = EquipmentDraftDTO
	UpdateEquipmentDTO = EquipmentDraftDTO
)

// EquipmentDTO: проекция для чтения: оборудование вместе с названиями категории и локации.
type EquipmentDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"equipmentName"`
	SerialNumber string    `json:"serialNumber"`
	CategoryID   uint64    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	LocationID   uint64    `json:"locationId"`
	LocationName string    `json:"locationName"`
	PurchaseDate time.Time `json:"purchaseDate"`
	Status       string    `json:"status"`
}

type EquipmentSearchDTO struct {
	EquipmentName null.String `json:"equipmentName" validate:"omitempty,max=50"`
	PurchaseDate  null.Time   `json:"purchaseDate"`
	CategoryID    null.Uint64 `json:"categoryId"    validate:"omitempty,max=9223372036854775807"`
	PageNumber    null.Uint64 `json:"pageNumber"`
	PageSize      null.Uint64 `json:"pageSize"`
}

// EquipmentFilter содержит независимые условия поиска, каждое применяется только если задано.
type EquipmentFilter struct {
	Name         null.String
	PurchaseDate null.Time
	CategoryID   null.Uint64
}

func (f EquipmentFilter) IsEmpty() bool {
	return !f.Name.Valid && !f.PurchaseDate.Valid && !f.CategoryID.Valid
}
