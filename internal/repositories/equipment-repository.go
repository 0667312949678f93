package repositories

import (
	"context"
	"fmt"

	"equipment-inventory/internal/dto"
	"equipment-inventory/internal/entities"
	apperrors "equipment-inventory/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter dto.EquipmentFilter, limit uint64, offset uint64) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	FindEquipmentEntity(ctx context.Context, id uint64) (*entities.Equipment, error)
	SerialNumberExists(ctx context.Context, serialNumber string, excludeID uint64) (bool, error)
	CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, equipment entities.Equipment) error
	DeleteEquipment(ctx context.Context, id uint64) (bool, error)
	WithTx(tx pgx.Tx) EquipmentRepositoryInterface
}

type EquipmentRepository struct {
	storage querier
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
	}
}

func (r *EquipmentRepository) WithTx(tx pgx.Tx) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: tx}
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter dto.EquipmentFilter, limit uint64, offset uint64) ([]dto.EquipmentDTO, uint64, error) {
	countQuery, countArgs, err := buildEquipmentCountQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapStoreError("подсчёт оборудования", err)
	}

	items := make([]dto.EquipmentDTO, 0)
	if total == 0 || offset >= total {
		return items, total, nil
	}

	query, args, err := buildEquipmentListQuery(filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStoreError("выборка оборудования", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, mapStoreError("чтение строки оборудования", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapStoreError("выборка оборудования", err)
	}

	return items, total, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	if !storableID(id) {
		return nil, apperrors.ErrNotFound
	}
	query, args, err := buildEquipmentByIDQuery(id)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	equipment, err := scanEquipment(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapStoreError("поиск оборудования", err)
	}
	return equipment, nil
}

func (r *EquipmentRepository) FindEquipmentEntity(ctx context.Context, id uint64) (*entities.Equipment, error) {
	if !storableID(id) {
		return nil, apperrors.ErrNotFound
	}
	query, args, err := psql.
		Select("id", "name", "serial_number", "category_id", "location_id", "purchase_date", "status", "created_at", "updated_at").
		From(equipmentTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var equipment entities.Equipment
	var status int16
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&equipment.ID,
		&equipment.Name,
		&equipment.SerialNumber,
		&equipment.CategoryID,
		&equipment.LocationID,
		&equipment.PurchaseDate,
		&status,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	)
	if err != nil {
		return nil, mapStoreError("поиск оборудования", err)
	}
	equipment.Status = entities.EquipmentStatus(status)

	return &equipment, nil
}

// SerialNumberExists проверяет точное совпадение; excludeID = 0 ничего не исключает.
func (r *EquipmentRepository) SerialNumberExists(ctx context.Context, serialNumber string, excludeID uint64) (bool, error) {
	sub := psql.Select("1").From(equipmentTable).Where(sq.Eq{"serial_number": serialNumber})
	if excludeID != 0 && storableID(excludeID) {
		sub = sub.Where(sq.NotEq{"id": excludeID})
	}
	subQuery, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var exists bool
	if err := r.storage.QueryRow(ctx, "SELECT EXISTS ("+subQuery+")", args...).Scan(&exists); err != nil {
		return false, mapStoreError("проверка серийного номера", err)
	}
	return exists, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error) {
	if !storableID(equipment.CategoryID) || !storableID(equipment.LocationID) {
		return 0, apperrors.ErrReferenceMissing
	}
	query, args, err := psql.
		Insert(equipmentTable).
		Columns("name", "serial_number", "category_id", "location_id", "purchase_date", "status").
		Values(
			equipment.Name,
			equipment.SerialNumber,
			equipment.CategoryID,
			equipment.LocationID,
			equipment.PurchaseDate,
			int16(equipment.Status),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapStoreError("создание оборудования", err)
	}
	return id, nil
}

// UpdateEquipment перезаписывает все изменяемые поля строки.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment entities.Equipment) error {
	if !storableID(equipment.ID) {
		return apperrors.ErrNotFound
	}
	if !storableID(equipment.CategoryID) || !storableID(equipment.LocationID) {
		return apperrors.ErrReferenceMissing
	}
	query, args, err := psql.
		Update(equipmentTable).
		Set("name", equipment.Name).
		Set("serial_number", equipment.SerialNumber).
		Set("category_id", equipment.CategoryID).
		Set("location_id", equipment.LocationID).
		Set("purchase_date", equipment.PurchaseDate).
		Set("status", int16(equipment.Status)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": equipment.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapStoreError("обновление оборудования", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) (bool, error) {
	if !storableID(id) {
		return false, nil
	}
	query, args, err := psql.Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return false, mapStoreError("удаление оборудования", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanEquipment(row pgx.Row) (*dto.EquipmentDTO, error) {
	var equipment dto.EquipmentDTO
	var status int16

	err := row.Scan(
		&equipment.ID,
		&equipment.Name,
		&equipment.SerialNumber,
		&equipment.CategoryID,
		&equipment.CategoryName,
		&equipment.LocationID,
		&equipment.LocationName,
		&equipment.PurchaseDate,
		&status,
	)
	if err != nil {
		return nil, err
	}
	equipment.Status = entities.EquipmentStatus(status).String()

	return &equipment, nil
}
