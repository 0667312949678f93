package types

import "math"

// PagedResult хранит страницу выборки и размер всей выборки, а не страницы.
type PagedResult[T any] struct {
	Items      []T    `json:"items"`
	TotalCount uint64 `json:"totalCount"`
	PageNumber uint64 `json:"pageNumber"`
	PageSize   uint64 `json:"pageSize"`
}

func NewPagedResult[T any](items []T, total, pageNumber, pageSize uint64) *PagedResult[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &PagedResult[T]{
		Items:      items,
		TotalCount: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}
}

// TotalPages округляет вверх; для пустого размера страницы возвращает 0.
func (p *PagedResult[T]) TotalPages() uint64 {
	if p.PageSize == 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// Offset считает смещение для номера страницы с единицы.
// При переполнении возвращает math.MaxUint64: такая страница заведомо за концом выборки.
func Offset(pageNumber, pageSize uint64) uint64 {
	if pageNumber == 0 || pageSize == 0 {
		return 0
	}
	if pageNumber-1 > math.MaxUint64/pageSize {
		return math.MaxUint64
	}
	return (pageNumber - 1) * pageSize
}
