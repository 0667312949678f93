package entities

import (
	"fmt"
	"strings"

	apperrors "equipment-inventory/pkg/errors"
)

// EquipmentStatus хранится в БД как SMALLINT, наружу отдаётся по имени.
type EquipmentStatus uint8

const (
	StatusActive EquipmentStatus = iota
	StatusInMaintenance
	StatusOutOfService
	StatusRetired
)

var statusNames = [...]string{
	StatusActive:        "Active",
	StatusInMaintenance: "InMaintenance",
	StatusOutOfService:  "OutOfService",
	StatusRetired:       "Retired",
}

func (s EquipmentStatus) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("EquipmentStatus(%d)", uint8(s))
}

func (s EquipmentStatus) Valid() bool {
	return int(s) < len(statusNames)
}

// ParseEquipmentStatus принимает только имена из перечисления с точным регистром;
// краевые пробелы отбрасываются. Пустая строка тоже ошибка: значение по умолчанию
// подставляет вызывающий код.
func ParseEquipmentStatus(text string) (EquipmentStatus, error) {
	t := strings.TrimSpace(text)
	for i, name := range statusNames {
		if t == name {
			return EquipmentStatus(i), nil
		}
	}
	return 0, fmt.Errorf("%w: '%s'", apperrors.ErrMalformedStatus, text)
}

func EquipmentStatusNames() []string {
	out := make([]string, len(statusNames))
	copy(out, statusNames[:])
	return out
}
