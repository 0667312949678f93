package repositories

import (
	"context"
	"fmt"

	"equipment-inventory/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepositoryInterface interface {
	GetLocations(ctx context.Context) ([]entities.Location, error)
	LocationExists(ctx context.Context, id uint64) (bool, error)
	CreateLocation(ctx context.Context, location entities.Location) (uint64, error)
	CountLocations(ctx context.Context) (uint64, error)
	WithTx(tx pgx.Tx) LocationRepositoryInterface
}

type LocationRepository struct {
	storage querier
}

func NewLocationRepository(storage *pgxpool.Pool) LocationRepositoryInterface {
	return &LocationRepository{storage: storage}
}

func (r *LocationRepository) WithTx(tx pgx.Tx) LocationRepositoryInterface {
	return &LocationRepository{storage: tx}
}

func (r *LocationRepository) GetLocations(ctx context.Context) ([]entities.Location, error) {
	query, args, err := psql.
		Select("id", "name", "building", "floor").
		From(locationTable).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError("выборка локаций", err)
	}
	defer rows.Close()

	locations := make([]entities.Location, 0)
	for rows.Next() {
		var location entities.Location
		if err := rows.Scan(&location.ID, &location.Name, &location.Building, &location.Floor); err != nil {
			return nil, mapStoreError("чтение локации", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("выборка локаций", err)
	}
	return locations, nil
}

func (r *LocationRepository) LocationExists(ctx context.Context, id uint64) (bool, error) {
	return existsByID(ctx, r.storage, locationTable, id)
}

func (r *LocationRepository) CreateLocation(ctx context.Context, location entities.Location) (uint64, error) {
	query, args, err := psql.
		Insert(locationTable).
		Columns("name", "building", "floor").
		Values(location.Name, location.Building, location.Floor).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapStoreError("создание локации", err)
	}
	return id, nil
}

func (r *LocationRepository) CountLocations(ctx context.Context) (uint64, error) {
	return countRows(ctx, r.storage, locationTable)
}
