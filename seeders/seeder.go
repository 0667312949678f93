package seeders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"equipment-inventory/internal/dto"
	"equipment-inventory/internal/entities"
	"equipment-inventory/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Seeder наполняет пустые таблицы. Таблица, где уже есть строки, не трогается.
type Seeder struct {
	txManager  repositories.TxManagerInterface
	categories repositories.CategoryRepositoryInterface
	locations  repositories.LocationRepositoryInterface
	equipment  repositories.EquipmentRepositoryInterface
	source     Source
	logger     *zap.Logger
}

func NewSeeder(
	txManager repositories.TxManagerInterface,
	categories repositories.CategoryRepositoryInterface,
	locations repositories.LocationRepositoryInterface,
	equipment repositories.EquipmentRepositoryInterface,
	source Source,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		txManager:  txManager,
		categories: categories,
		locations:  locations,
		equipment:  equipment,
		source:     source,
		logger:     logger,
	}
}

// NewPostgresSeeder собирает Seeder поверх пула.
func NewPostgresSeeder(db *pgxpool.Pool, source Source, logger *zap.Logger) *Seeder {
	return NewSeeder(
		repositories.NewTxManager(db),
		repositories.NewCategoryRepository(db),
		repositories.NewLocationRepository(db),
		repositories.NewEquipmentRepository(db),
		source,
		logger,
	)
}

// SeedAll наполняет таблицы по порядку зависимостей.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("Запуск наполнения БД", zap.Stringer("source", s.source))

	steps := []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{"categories", s.SeedCategories},
		{"locations", s.SeedLocations},
		{"equipment", s.SeedEquipment},
	}
	for _, step := range steps {
		if _, err := step.run(ctx); err != nil {
			return fmt.Errorf("сидер %s: %w", step.name, err)
		}
	}

	s.logger.Info("Наполнение БД завершено")
	return nil
}

func (s *Seeder) SeedCategories(ctx context.Context) (int, error) {
	total, err := s.categories.CountCategories(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		s.logger.Info("Категории уже заполнены, пропускаем", zap.Uint64("count", total))
		return 0, nil
	}

	var items []entities.Category
	if skip, err := s.load(categoriesFile, &items); skip || err != nil {
		return 0, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		repo := s.categories.WithTx(tx)
		for _, item := range items {
			if _, err := repo.CreateCategory(ctx, item); err != nil {
				return fmt.Errorf("категория '%s': %w", item.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Категории добавлены", zap.Int("count", len(items)))
	return len(items), nil
}

func (s *Seeder) SeedLocations(ctx context.Context) (int, error) {
	total, err := s.locations.CountLocations(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		s.logger.Info("Локации уже заполнены, пропускаем", zap.Uint64("count", total))
		return 0, nil
	}

	var items []entities.Location
	if skip, err := s.load(locationsFile, &items); skip || err != nil {
		return 0, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		repo := s.locations.WithTx(tx)
		for _, item := range items {
			if _, err := repo.CreateLocation(ctx, item); err != nil {
				return fmt.Errorf("локация '%s': %w", item.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Локации добавлены", zap.Int("count", len(items)))
	return len(items), nil
}

// SeedEquipment связывает строки с категориями и локациями по имени.
// Строки с неизвестным именем, неверным статусом или повторным серийным номером пропускаются.
func (s *Seeder) SeedEquipment(ctx context.Context) (int, error) {
	_, total, err := s.equipment.GetEquipments(ctx, dto.EquipmentFilter{}, 1, 0)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		s.logger.Info("Оборудование уже заполнено, пропускаем", zap.Uint64("count", total))
		return 0, nil
	}

	var seeds []equipmentSeed
	if skip, err := s.load(equipmentFile, &seeds); skip || err != nil {
		return 0, err
	}

	categories, err := s.categories.GetCategories(ctx)
	if err != nil {
		return 0, err
	}
	locations, err := s.locations.GetLocations(ctx)
	if err != nil {
		return 0, err
	}

	items := s.resolveEquipment(seeds, categoryIDs(categories), locationIDs(locations))
	if len(items) == 0 {
		return 0, nil
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		repo := s.equipment.WithTx(tx)
		for _, item := range items {
			if _, err := repo.CreateEquipment(ctx, item); err != nil {
				return fmt.Errorf("оборудование '%s': %w", item.SerialNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Оборудование добавлено", zap.Int("count", len(items)))
	return len(items), nil
}

func (s *Seeder) resolveEquipment(seeds []equipmentSeed, categories, locations map[string]uint64) []entities.Equipment {
	items := make([]entities.Equipment, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))

	for _, seed := range seeds {
		log := s.logger.With(zap.String("equipment", seed.EquipmentName), zap.String("serial_number", seed.SerialNumber))

		name, serial := strings.TrimSpace(seed.EquipmentName), strings.TrimSpace(seed.SerialNumber)
		if name == "" || serial == "" {
			log.Warn("Пустое наименование или серийный номер, пропускаем")
			continue
		}
		if _, dup := seen[serial]; dup {
			log.Warn("Повторный серийный номер, пропускаем")
			continue
		}
		categoryID, ok := categories[seed.CategoryName]
		if !ok {
			log.Warn("Категория не найдена, пропускаем", zap.String("category", seed.CategoryName))
			continue
		}
		locationID, ok := locations[seed.LocationName]
		if !ok {
			log.Warn("Локация не найдена, пропускаем", zap.String("location", seed.LocationName))
			continue
		}

		status := entities.StatusActive
		if strings.TrimSpace(seed.Status) != "" {
			parsed, err := entities.ParseEquipmentStatus(seed.Status)
			if err != nil {
				log.Warn("Неверный статус, пропускаем", zap.Error(err))
				continue
			}
			status = parsed
		}

		seen[serial] = struct{}{}
		items = append(items, entities.Equipment{
			Name:         name,
			SerialNumber: serial,
			CategoryID:   categoryID,
			LocationID:   locationID,
			PurchaseDate: seed.PurchaseDate,
			Status:       status,
		})
	}
	return items
}

// load возвращает skip=true, если файла нет или он пуст.
func (s *Seeder) load(file string, v interface{}) (bool, error) {
	if err := s.source.read(file, v); err != nil {
		if errors.Is(err, ErrSeedFileMissing) {
			s.logger.Warn("Файл сидов не найден, пропускаем", zap.String("file", file), zap.Stringer("source", s.source))
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func categoryIDs(categories []entities.Category) map[string]uint64 {
	ids := make(map[string]uint64, len(categories))
	for _, c := range categories {
		ids[c.Name] = c.ID
	}
	return ids
}

func locationIDs(locations []entities.Location) map[string]uint64 {
	ids := make(map[string]uint64, len(locations))
	for _, l := range locations {
		ids[l.Name] = l.ID
	}
	return ids
}
