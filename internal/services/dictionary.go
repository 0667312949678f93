package services

import (
	"context"

	"equipment-inventory/internal/entities"
	"equipment-inventory/internal/repositories"

	"go.uber.org/zap"
)

type CategoryServiceInterface interface {
	GetCategories(ctx context.Context) ([]entities.Category, error)
}

type CategoryService struct {
	categoryRepository repositories.CategoryRepositoryInterface
	logger             *zap.Logger
}

func NewCategoryService(categoryRepository repositories.CategoryRepositoryInterface, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepository: categoryRepository, logger: logger}
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]entities.Category, error) {
	categories, err := s.categoryRepository.GetCategories(ctx)
	if err != nil {
		s.logger.Error("Ошибка при получении категорий", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

type LocationServiceInterface interface {
	GetLocations(ctx context.Context) ([]entities.Location, error)
}

type LocationService struct {
	locationRepository repositories.LocationRepositoryInterface
	logger             *zap.Logger
}

func NewLocationService(locationRepository repositories.LocationRepositoryInterface, logger *zap.Logger) *LocationService {
	return &LocationService{locationRepository: locationRepository, logger: logger}
}

func (s *LocationService) GetLocations(ctx context.Context) ([]entities.Location, error) {
	locations, err := s.locationRepository.GetLocations(ctx)
	if err != nil {
		s.logger.Error("Ошибка при получении локаций", zap.Error(err))
		return nil, err
	}
	return locations, nil
}
