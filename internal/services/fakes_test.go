package services

import (
	"context"
	"sort"
	"strings"

	"equipment-inventory/internal/dto"
	"equipment-inventory/internal/entities"
	"equipment-inventory/internal/repositories"
	apperrors "equipment-inventory/pkg/errors"

	"github.com/jackc/pgx/v5"
)

// memoryStore держит таблицы в памяти и проверяет те же ограничения, что и БД:
// уникальность серийного номера и ссылки на категорию и локацию.
type memoryStore struct {
	equipment  map[uint64]entities.Equipment
	categories map[uint64]entities.Category
	locations  map[uint64]entities.Location
	nextID     uint64

	// имитация гонки: проверка серийного номера ничего не видит
	hideSerials bool
	// запись проходит, но перечитать её нельзя
	loseWrites bool
	// сбой хранилища на любой операции
	fault error
	calls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		equipment:  map[uint64]entities.Equipment{},
		categories: map[uint64]entities.Category{},
		locations:  map[uint64]entities.Location{},
	}
}

func (m *memoryStore) touch() error {
	m.calls++
	return m.fault
}

func (m *memoryStore) project(e entities.Equipment) dto.EquipmentDTO {
	return dto.EquipmentDTO{
		ID:           e.ID,
		Name:         e.Name,
		SerialNumber: e.SerialNumber,
		CategoryID:   e.CategoryID,
		CategoryName: m.categories[e.CategoryID].Name,
		LocationID:   e.LocationID,
		LocationName: m.locations[e.LocationID].Name,
		PurchaseDate: e.PurchaseDate,
		Status:       e.Status.String(),
	}
}

func (m *memoryStore) serialTaken(serial string, excludeID uint64) bool {
	for id, e := range m.equipment {
		if id != excludeID && e.SerialNumber == serial {
			return true
		}
	}
	return false
}

func (m *memoryStore) checkRefs(e entities.Equipment) error {
	if _, ok := m.categories[e.CategoryID]; !ok {
		return apperrors.ErrReferenceMissing
	}
	if _, ok := m.locations[e.LocationID]; !ok {
		return apperrors.ErrReferenceMissing
	}
	return nil
}

func matches(e dto.EquipmentDTO, filter dto.EquipmentFilter) bool {
	if filter.Name.Valid && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Name.String)) {
		return false
	}
	if filter.PurchaseDate.Valid {
		want := filter.PurchaseDate.Time
		got := e.PurchaseDate.In(want.Location())
		if got.Year() != want.Year() || got.YearDay() != want.YearDay() {
			return false
		}
	}
	if filter.CategoryID.Valid && e.CategoryID != filter.CategoryID.Uint64 {
		return false
	}
	return true
}

type fakeEquipmentRepository struct{ store *memoryStore }

func (r *fakeEquipmentRepository) WithTx(pgx.Tx) repositories.EquipmentRepositoryInterface { return r }

func (r *fakeEquipmentRepository) GetEquipments(_ context.Context, filter dto.EquipmentFilter, limit, offset uint64) ([]dto.EquipmentDTO, uint64, error) {
	if err := r.store.touch(); err != nil {
		return nil, 0, err
	}
	ids := make([]uint64, 0, len(r.store.equipment))
	for id := range r.store.equipment {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := make([]dto.EquipmentDTO, 0)
	for _, id := range ids {
		if item := r.store.project(r.store.equipment[id]); matches(item, filter) {
			matched = append(matched, item)
		}
	}
	total := uint64(len(matched))
	if offset >= total {
		return []dto.EquipmentDTO{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeEquipmentRepository) FindEquipment(_ context.Context, id uint64) (*dto.EquipmentDTO, error) {
	if err := r.store.touch(); err != nil {
		return nil, err
	}
	e, ok := r.store.equipment[id]
	if !ok || r.store.loseWrites {
		return nil, apperrors.ErrNotFound
	}
	item := r.store.project(e)
	return &item, nil
}

func (r *fakeEquipmentRepository) FindEquipmentEntity(_ context.Context, id uint64) (*entities.Equipment, error) {
	if err := r.store.touch(); err != nil {
		return nil, err
	}
	e, ok := r.store.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEquipmentRepository) SerialNumberExists(_ context.Context, serial string, excludeID uint64) (bool, error) {
	if err := r.store.touch(); err != nil {
		return false, err
	}
	if r.store.hideSerials {
		return false, nil
	}
	return r.store.serialTaken(serial, excludeID), nil
}

func (r *fakeEquipmentRepository) CreateEquipment(_ context.Context, e entities.Equipment) (uint64, error) {
	if err := r.store.touch(); err != nil {
		return 0, err
	}
	if r.store.serialTaken(e.SerialNumber, 0) {
		return 0, apperrors.ErrSerialConflict
	}
	if err := r.store.checkRefs(e); err != nil {
		return 0, err
	}
	r.store.nextID++
	e.ID = r.store.nextID
	r.store.equipment[e.ID] = e
	return e.ID, nil
}

func (r *fakeEquipmentRepository) UpdateEquipment(_ context.Context, e entities.Equipment) error {
	if err := r.store.touch(); err != nil {
		return err
	}
	if _, ok := r.store.equipment[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if r.store.serialTaken(e.SerialNumber, e.ID) {
		return apperrors.ErrSerialConflict
	}
	if err := r.store.checkRefs(e); err != nil {
		return err
	}
	r.store.equipment[e.ID] = e
	return nil
}

func (r *fakeEquipmentRepository) DeleteEquipment(_ context.Context, id uint64) (bool, error) {
	if err := r.store.touch(); err != nil {
		return false, err
	}
	if _, ok := r.store.equipment[id]; !ok {
		return false, nil
	}
	delete(r.store.equipment, id)
	return true, nil
}

type fakeCategoryRepository struct{ store *memoryStore }

func (r *fakeCategoryRepository) WithTx(pgx.Tx) repositories.CategoryRepositoryInterface { return r }

func (r *fakeCategoryRepository) GetCategories(context.Context) ([]entities.Category, error) {
	if err := r.store.touch(); err != nil {
		return nil, err
	}
	out := make([]entities.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepository) CategoryExists(_ context.Context, id uint64) (bool, error) {
	if err := r.store.touch(); err != nil {
		return false, err
	}
	_, ok := r.store.categories[id]
	return ok, nil
}

func (r *fakeCategoryRepository) CreateCategory(_ context.Context, c entities.Category) (uint64, error) {
	c.ID = uint64(len(r.store.categories) + 1)
	r.store.categories[c.ID] = c
	return c.ID, nil
}

func (r *fakeCategoryRepository) CountCategories(context.Context) (uint64, error) {
	return uint64(len(r.store.categories)), nil
}

type fakeLocationRepository struct{ store *memoryStore }

func (r *fakeLocationRepository) WithTx(pgx.Tx) repositories.LocationRepositoryInterface { return r }

func (r *fakeLocationRepository) GetLocations(context.Context) ([]entities.Location, error) {
	if err := r.store.touch(); err != nil {
		return nil, err
	}
	out := make([]entities.Location, 0, len(r.store.locations))
	for _, l := range r.store.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeLocationRepository) LocationExists(_ context.Context, id uint64) (bool, error) {
	if err := r.store.touch(); err != nil {
		return false, err
	}
	_, ok := r.store.locations[id]
	return ok, nil
}

func (r *fakeLocationRepository) CreateLocation(_ context.Context, l entities.Location) (uint64, error) {
	l.ID = uint64(len(r.store.locations) + 1)
	r.store.locations[l.ID] = l
	return l.ID, nil
}

func (r *fakeLocationRepository) CountLocations(context.Context) (uint64, error) {
	return uint64(len(r.store.locations)), nil
}

// fakeTxManager выполняет функцию без транзакции.
type fakeTxManager struct{ runs int }

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.runs++
	return fn(nil)
}
