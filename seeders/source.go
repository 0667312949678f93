package seeders

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

const (
	categoriesFile = "categories.json"
	locationsFile  = "locations.json"
	equipmentFile  = "equipment.json"
)

//go:embed data/*.json
var defaultData embed.FS

// ErrSeedFileMissing означает, что файла нет; таблица при этом пропускается.
var ErrSeedFileMissing = errors.New("файл сидов не найден")

// Source читает JSON-файлы сидов из каталога или из встроенных данных.
type Source struct {
	files fs.FS
	name  string
}

// NewSource с пустым каталогом берёт встроенные данные.
func NewSource(dir string) Source {
	if dir == "" {
		sub, _ := fs.Sub(defaultData, "data")
		return Source{files: sub, name: "встроенные данные"}
	}
	return Source{files: os.DirFS(dir), name: dir}
}

func (s Source) String() string { return s.name }

func (s Source) read(file string, v interface{}) error {
	raw, err := fs.ReadFile(s.files, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s (%s)", ErrSeedFileMissing, file, s.name)
		}
		return fmt.Errorf("не удалось прочитать %s: %w", file, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("неверный JSON в %s: %w", file, err)
	}
	return nil
}

// equipmentSeed ссылается на категорию и локацию по имени.
type equipmentSeed struct {
	EquipmentName string    `json:"equipmentName"`
	SerialNumber  string    `json:"serialNumber"`
	CategoryName  string    `json:"categoryName"`
	LocationName  string    `json:"locationName"`
	PurchaseDate  time.Time `json:"purchaseDate"`
	Status        string    `json:"status"`
}
