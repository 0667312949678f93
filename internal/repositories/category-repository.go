package repositories

import (
	"context"
	"fmt"

	"equipment-inventory/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepositoryInterface interface {
	GetCategories(ctx context.Context) ([]entities.Category, error)
	CategoryExists(ctx context.Context, id uint64) (bool, error)
	CreateCategory(ctx context.Context, category entities.Category) (uint64, error)
	CountCategories(ctx context.Context) (uint64, error)
	WithTx(tx pgx.Tx) CategoryRepositoryInterface
}

type CategoryRepository struct {
	storage querier
}

func NewCategoryRepository(storage *pgxpool.Pool) CategoryRepositoryInterface {
	return &CategoryRepository{storage: storage}
}

func (r *CategoryRepository) WithTx(tx pgx.Tx) CategoryRepositoryInterface {
	return &CategoryRepository{storage: tx}
}

func (r *CategoryRepository) GetCategories(ctx context.Context) ([]entities.Category, error) {
	query, args, err := psql.
		Select("id", "name", "description").
		From(categoryTable).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError("выборка категорий", err)
	}
	defer rows.Close()

	categories := make([]entities.Category, 0)
	for rows.Next() {
		var category entities.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, mapStoreError("чтение категории", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError("выборка категорий", err)
	}
	return categories, nil
}

func (r *CategoryRepository) CategoryExists(ctx context.Context, id uint64) (bool, error) {
	return existsByID(ctx, r.storage, categoryTable, id)
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category entities.Category) (uint64, error) {
	query, args, err := psql.
		Insert(categoryTable).
		Columns("name", "description").
		Values(category.Name, category.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapStoreError("создание категории", err)
	}
	return id, nil
}

func (r *CategoryRepository) CountCategories(ctx context.Context) (uint64, error) {
	return countRows(ctx, r.storage, categoryTable)
}

func existsByID(ctx context.Context, storage querier, table string, id uint64) (bool, error) {
	if !storableID(id) {
		return false, nil
	}
	subQuery, args, err := psql.Select("1").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var exists bool
	if err := storage.QueryRow(ctx, "SELECT EXISTS ("+subQuery+")", args...).Scan(&exists); err != nil {
		return false, mapStoreError("проверка "+table, err)
	}
	return exists, nil
}

func countRows(ctx context.Context, storage querier, table string) (uint64, error) {
	query, args, err := psql.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса: %w", err)
	}

	var total uint64
	if err := storage.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapStoreError("подсчёт "+table, err)
	}
	return total, nil
}
